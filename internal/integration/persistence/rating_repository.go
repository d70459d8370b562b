// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/domain/entity"
	"github.com/dealership/backoffice/internal/integration/persistence/model"
)

// ratingPolicyRepository implements the adapter.RatingPolicyRepository interface.
type ratingPolicyRepository struct {
	db *gorm.DB
}

// NewRatingPolicyRepository creates a new rating policy repository instance.
func NewRatingPolicyRepository(db *gorm.DB) adapter.RatingPolicyRepository {
	return &ratingPolicyRepository{
		db: db,
	}
}

// FindBandsOrdered returns all bands ordered by DaysFrom ascending.
func (r *ratingPolicyRepository) FindBandsOrdered(ctx context.Context) ([]*entity.RatingBand, error) {
	var bandModels []model.RatingBandModel
	result := dbFrom(ctx, r.db).WithContext(ctx).
		Order("days_from ASC").
		Find(&bandModels)
	if result.Error != nil {
		return nil, result.Error
	}

	bands := make([]*entity.RatingBand, len(bandModels))
	for i, bm := range bandModels {
		bands[i] = bm.ToEntity()
	}
	return bands, nil
}

// ratingHistoryRepository implements the adapter.RatingHistoryRepository interface.
type ratingHistoryRepository struct {
	db *gorm.DB
}

// NewRatingHistoryRepository creates a new rating history repository instance.
func NewRatingHistoryRepository(db *gorm.DB) adapter.RatingHistoryRepository {
	return &ratingHistoryRepository{
		db: db,
	}
}

// Append records a rating transition.
func (r *ratingHistoryRepository) Append(ctx context.Context, entry *entity.RatingHistoryEntry) error {
	entryModel := model.RatingHistoryFromEntity(entry)
	result := dbFrom(ctx, r.db).WithContext(ctx).Create(entryModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByClient retrieves a client's transitions, newest first.
func (r *ratingHistoryRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.RatingHistoryEntry, error) {
	var entryModels []model.RatingHistoryModel
	result := dbFrom(ctx, r.db).WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&entryModels)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*entity.RatingHistoryEntry, len(entryModels))
	for i, em := range entryModels {
		entries[i] = em.ToEntity()
	}
	return entries, nil
}
