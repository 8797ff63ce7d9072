package patienthistory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/records/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// repoPG keeps each record as its discriminated JSON payload in a JSONB
// column, next to the columns needed for lookups and the lineage index.
type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const itemCols = `id, history_type, payload`

const snapshotCols = `id, history_type, current_state, payload`

func (r *repoPG) scanItem(row pgx.Row) (LiveItem, error) {
	var (
		id      int64
		tag     string
		payload []byte
	)
	if err := row.Scan(&id, &tag, &payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	item, err := DecodeLive(payload)
	if err != nil {
		return nil, fmt.Errorf("decode stored item %d: %w", id, err)
	}
	if item.HistoryType() != HistoryType(tag) {
		return nil, fmt.Errorf("stored item %d: column type %s, payload type %s", id, tag, item.HistoryType())
	}
	item.base().ID = id
	return item, nil
}

func (r *repoPG) scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		id      int64
		tag     string
		current *bool
		payload []byte
	)
	if err := row.Scan(&id, &tag, &current, &payload); err != nil {
		return nil, err
	}
	s, err := DecodeSnapshot(payload)
	if err != nil {
		return nil, fmt.Errorf("decode stored snapshot %d: %w", id, err)
	}
	if s.HistoryType() != HistoryType(tag) {
		return nil, fmt.Errorf("stored snapshot %d: column type %s, payload type %s", id, tag, s.HistoryType())
	}
	s.base().ID = id
	// The column is authoritative for the lineage flag.
	if t, ok := s.(*TrackingHistory); ok && current != nil {
		t.CurrentState = *current
	}
	return s, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64) ([]LiveItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+itemCols+` FROM patient_history_item
		WHERE patient_id = $1 ORDER BY id`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LiveItem
	for rows.Next() {
		item, err := r.scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repoPG) Get(ctx context.Context, t HistoryType, id int64) (LiveItem, error) {
	return r.scanItem(r.conn(ctx).QueryRow(ctx, `SELECT `+itemCols+` FROM patient_history_item
		WHERE id = $1 AND history_type = $2`, id, string(t)))
}

func (r *repoPG) Save(ctx context.Context, item LiveItem, snap Snapshot) error {
	if item.HistoryType() != snap.HistoryType() {
		return fmt.Errorf("save %s item with %s snapshot: %w", item.HistoryType(), snap.HistoryType(), ErrTypeMismatch)
	}
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		q := r.conn(ctx)
		b := item.base()

		payload, err := EncodeLive(item)
		if err != nil {
			return err
		}
		if b.ID == 0 {
			err = q.QueryRow(ctx, `
				INSERT INTO patient_history_item (history_type, patient_id, mask_id, payload)
				VALUES ($1, $2, $3, $4) RETURNING id`,
				string(item.HistoryType()), b.PatientID, b.MaskID, string(payload)).Scan(&b.ID)
			if err != nil {
				return fmt.Errorf("insert %s item: %w", item.HistoryType(), err)
			}
		} else {
			tag, err := q.Exec(ctx, `
				UPDATE patient_history_item SET patient_id = $3, mask_id = $4, payload = $5, updated_at = NOW()
				WHERE id = $1 AND history_type = $2`,
				b.ID, string(item.HistoryType()), b.PatientID, b.MaskID, string(payload))
			if err != nil {
				return fmt.Errorf("update %s item %d: %w", item.HistoryType(), b.ID, err)
			}
			if tag.RowsAffected() == 0 {
				return ErrNotFound
			}
		}

		snap.setItemID(b.ID)
		var current *bool
		if t, ok := snap.(*TrackingHistory); ok {
			if _, err := q.Exec(ctx, `
				UPDATE patient_history_snapshot
				SET current_state = FALSE, payload = jsonb_set(payload, '{currentState}', 'false'::jsonb)
				WHERE history_type = $1 AND item_id = $2 AND current_state`,
				string(TypeTracking), b.ID); err != nil {
				return fmt.Errorf("supersede tracking item %d: %w", b.ID, err)
			}
			current = &t.CurrentState
		}

		snapPayload, err := EncodeSnapshot(snap)
		if err != nil {
			return err
		}
		sb := snap.base()
		err = q.QueryRow(ctx, `
			INSERT INTO patient_history_snapshot
				(history_type, item_id, patient_id, mask_id, modified_date, current_state, payload)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			string(snap.HistoryType()), b.ID, sb.PatientID, sb.MaskID, sb.ModifiedDate, current,
			string(snapPayload)).Scan(&sb.ID)
		if err != nil {
			return fmt.Errorf("append %s snapshot for item %d: %w", snap.HistoryType(), b.ID, err)
		}
		return nil
	})
}

func (r *repoPG) ListSnapshots(ctx context.Context, t HistoryType, itemID int64) ([]Snapshot, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+snapshotCols+` FROM patient_history_snapshot
		WHERE history_type = $1 AND item_id = $2 ORDER BY modified_date, id`, string(t), itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var snaps []Snapshot
	for rows.Next() {
		s, err := r.scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
