package patienthistory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Service applies the write rules of patient history on top of a
// Repository: every create, update and logical delete stamps the item,
// freezes it into one snapshot and saves both together.
type Service struct {
	repo     Repository
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{
		repo:     repo,
		validate: v,
		logger:   logger.With().Str("component", "patient_history").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Validate runs the structural checks on item. It does not look at the
// repository.
func (s *Service) Validate(item LiveItem) error {
	if item == nil {
		return fmt.Errorf("%w: missing item", ErrInvalid)
	}
	if err := s.validate.Struct(item); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for _, d := range itemDates(item) {
		if d != nil && !d.Valid() {
			return fmt.Errorf("%w: invalid date %s", ErrInvalid, d)
		}
	}
	return nil
}

// ListItems returns the patient's live items. Deleted items are left out
// unless includeDeleted is set.
func (s *Service) ListItems(ctx context.Context, patientID int64, includeDeleted bool) ([]LiveItem, error) {
	if patientID <= 0 {
		return nil, fmt.Errorf("%w: patientId must be positive", ErrInvalid)
	}
	items, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil || includeDeleted {
		return items, err
	}
	shown := make([]LiveItem, 0, len(items))
	for _, it := range items {
		if !isDeleted(it) {
			shown = append(shown, it)
		}
	}
	return shown, nil
}

func (s *Service) GetItem(ctx context.Context, t HistoryType, id int64) (LiveItem, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown history type %q", ErrInvalid, string(t))
	}
	return s.repo.Get(ctx, t, id)
}

// CreateItem stores a new live item and returns its first snapshot. Any id
// on item is ignored.
func (s *Service) CreateItem(ctx context.Context, item LiveItem, userID *int64) (Snapshot, error) {
	if err := s.Validate(item); err != nil {
		return nil, err
	}
	item.base().ID = 0

	now := s.now()
	switch it := item.(type) {
	case *Regular:
		if it.CreatorUserID == nil {
			it.CreatorUserID = cloneInt64(userID)
		}
	case *Tracking:
		if it.CreatorUserID == nil {
			it.CreatorUserID = cloneInt64(userID)
		}
		stampTracking(it, userID, now)
	}
	return s.save(ctx, item, userID, now)
}

// UpdateItem replaces the live item (t, id) with item and returns the
// snapshot of the new state. item may not move the record to a different
// patient.
func (s *Service) UpdateItem(ctx context.Context, t HistoryType, id int64, item LiveItem, userID *int64) (Snapshot, error) {
	if err := s.Validate(item); err != nil {
		return nil, err
	}
	if item.HistoryType() != t {
		return nil, fmt.Errorf("body is %s, path is %s: %w", item.HistoryType(), t, ErrTypeMismatch)
	}
	existing, err := s.repo.Get(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if existing.Base().PatientID != item.Base().PatientID {
		return nil, fmt.Errorf("%s %d: patient %d to %d: %w",
			t, id, existing.Base().PatientID, item.Base().PatientID, ErrPatientChanged)
	}
	item.base().ID = id

	now := s.now()
	switch it := item.(type) {
	case *Regular:
		if it.CreatorUserID == nil {
			it.CreatorUserID = cloneInt64(existing.(*Regular).CreatorUserID)
		}
	case *Tracking:
		if it.CreatorUserID == nil {
			it.CreatorUserID = cloneInt64(existing.(*Tracking).CreatorUserID)
		}
		stampTracking(it, userID, now)
	}
	return s.save(ctx, item, userID, now)
}

// DeleteItem sets the deleted flag on (t, id) and returns the snapshot of
// the tombstoned state. Regular items cannot be deleted. Deleting an item
// that is already deleted appends nothing and returns its latest snapshot.
func (s *Service) DeleteItem(ctx context.Context, t HistoryType, id int64, userID *int64) (Snapshot, error) {
	item, err := s.GetItem(ctx, t, id)
	if err != nil {
		return nil, err
	}
	if isDeleted(item) {
		snaps, err := s.repo.ListSnapshots(ctx, t, id)
		if err != nil {
			return nil, err
		}
		if len(snaps) > 0 {
			return snaps[len(snaps)-1], nil
		}
	}
	if err := markDeleted(item); err != nil {
		return nil, err
	}
	now := s.now()
	if it, ok := item.(*Tracking); ok {
		stampTracking(it, userID, now)
	}
	return s.save(ctx, item, userID, now)
}

// ListSnapshots returns every snapshot of (t, id), oldest first.
func (s *Service) ListSnapshots(ctx context.Context, t HistoryType, id int64) ([]Snapshot, error) {
	if _, err := s.GetItem(ctx, t, id); err != nil {
		return nil, err
	}
	return s.repo.ListSnapshots(ctx, t, id)
}

// TrackingLineage loads and checks the lineage of a tracking item.
func (s *Service) TrackingLineage(ctx context.Context, id int64) (Lineage, error) {
	snaps, err := s.ListSnapshots(ctx, TypeTracking, id)
	if err != nil {
		return nil, err
	}
	l := NewLineage(snaps)
	if err := l.Validate(); err != nil {
		s.logger.Error().Err(err).Int64("tracking_id", id).Msg("tracking lineage violation")
		return nil, err
	}
	return l, nil
}

func (s *Service) save(ctx context.Context, item LiveItem, userID *int64, at time.Time) (Snapshot, error) {
	snap, err := SnapshotOf(item, userID, at)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, item, snap); err != nil {
		return nil, fmt.Errorf("save %s item: %w", item.HistoryType(), err)
	}
	s.logger.Debug().
		Str("history_type", string(item.HistoryType())).
		Int64("item_id", item.Base().ID).
		Int64("snapshot_id", snap.Base().ID).
		Msg("snapshot appended")

	if item.HistoryType() == TypeTracking {
		s.checkLineage(ctx, item.Base().ID)
	}
	return snap, nil
}

// checkLineage re-reads a tracking lineage after a committed save. The save
// already happened, so failures are only logged.
func (s *Service) checkLineage(ctx context.Context, id int64) {
	snaps, err := s.repo.ListSnapshots(ctx, TypeTracking, id)
	if err != nil {
		s.logger.Warn().Err(err).Int64("tracking_id", id).Msg("could not reload tracking lineage")
		return
	}
	if err := NewLineage(snaps).Validate(); err != nil {
		s.logger.Error().Err(err).Int64("tracking_id", id).Msg("tracking lineage violation")
	}
}

// stampTracking records who touched the item and when. A freshly saved
// state is always the current one.
func stampTracking(t *Tracking, userID *int64, now time.Time) {
	at := now
	t.ModifiedDate = &at
	t.ModifierUserID = cloneInt64(userID)
	t.CurrentState = true
}
