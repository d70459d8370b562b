package adapters

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/domain/entity"
)

const (
	ratingPolicyCacheKey = "rating:policy:bands"

	// defaultPolicyCacheTTL keeps the snapshot short-lived so admin edits to
	// the bands propagate without an explicit invalidation path.
	defaultPolicyCacheTTL = 5 * time.Minute
)

// cachedRatingPolicyRepository decorates a RatingPolicyRepository with a Redis
// snapshot cache. The band set is read on every reconciliation but changes
// rarely; any cache failure falls through to the inner repository.
type cachedRatingPolicyRepository struct {
	inner  adapter.RatingPolicyRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRatingPolicyRepository creates a Redis-backed cache around a rating
// policy repository. A non-positive TTL falls back to the default.
func NewCachedRatingPolicyRepository(
	inner adapter.RatingPolicyRepository,
	client *redis.Client,
	ttl time.Duration,
	logger *slog.Logger,
) adapter.RatingPolicyRepository {
	if ttl <= 0 {
		ttl = defaultPolicyCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &cachedRatingPolicyRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// FindBandsOrdered returns the cached band snapshot when present, otherwise
// loads it from the inner repository and stores it.
func (r *cachedRatingPolicyRepository) FindBandsOrdered(ctx context.Context) ([]*entity.RatingBand, error) {
	payload, err := r.client.Get(ctx, ratingPolicyCacheKey).Bytes()
	if err == nil {
		var bands []*entity.RatingBand
		if unmarshalErr := json.Unmarshal(payload, &bands); unmarshalErr == nil {
			return bands, nil
		}
		// Corrupt payload: drop it and reload from the source.
		r.client.Del(ctx, ratingPolicyCacheKey)
	} else if err != redis.Nil {
		r.logger.WarnContext(ctx, "rating policy cache read failed",
			slog.String("error", err.Error()),
		)
	}

	bands, err := r.inner.FindBandsOrdered(ctx)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(bands); marshalErr == nil {
		if setErr := r.client.Set(ctx, ratingPolicyCacheKey, payload, r.ttl).Err(); setErr != nil {
			r.logger.WarnContext(ctx, "rating policy cache write failed",
				slog.String("error", setErr.Error()),
			)
		}
	}

	return bands, nil
}

// Invalidate drops the cached snapshot so the next read hits the database.
func (r *cachedRatingPolicyRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, ratingPolicyCacheKey).Err()
}
