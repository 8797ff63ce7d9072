package patienthistory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Cache stores encoded payloads by key. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CachedRepository keeps each patient's live items in a Cache as an encoded
// list and drops the entry whenever one of the patient's items is saved.
// Cache failures are logged and fall through to the wrapped repository.
type CachedRepository struct {
	Repository
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedRepository(repo Repository, cache Cache, ttl time.Duration, logger zerolog.Logger) *CachedRepository {
	return &CachedRepository{
		Repository: repo,
		cache:      cache,
		ttl:        ttl,
		logger:     logger.With().Str("component", "patient_history_cache").Logger(),
	}
}

func patientItemsKey(patientID int64) string {
	return fmt.Sprintf("patient-history:items:%d", patientID)
}

func (r *CachedRepository) ListByPatient(ctx context.Context, patientID int64) ([]LiveItem, error) {
	key := patientItemsKey(patientID)
	data, ok, err := r.cache.Get(ctx, key)
	switch {
	case err != nil:
		r.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	case ok:
		items, err := DecodeLiveList(data)
		if err == nil {
			return items, nil
		}
		r.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
	}

	items, err := r.Repository.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if data, err := EncodeLiveList(items); err != nil {
		r.logger.Warn().Err(err).Int64("patient_id", patientID).Msg("cache encode failed")
	} else if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return items, nil
}

func (r *CachedRepository) Save(ctx context.Context, item LiveItem, snap Snapshot) error {
	if err := r.Repository.Save(ctx, item, snap); err != nil {
		return err
	}
	key := patientItemsKey(item.Base().PatientID)
	if err := r.cache.Delete(ctx, key); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
	return nil
}
