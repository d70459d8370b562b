// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// RatingPolicyRepository supplies the ordered rating policy snapshot. Bands
// are admin-managed elsewhere; the core only reads them. Implementations may
// cache the snapshot (it changes rarely and is read on every reconciliation),
// but the database remains authoritative.
type RatingPolicyRepository interface {
	// FindBandsOrdered returns all bands ordered by DaysFrom ascending.
	FindBandsOrdered(ctx context.Context) ([]*entity.RatingBand, error)
}

// RatingHistoryRepository defines the append-only rating transition log.
type RatingHistoryRepository interface {
	// Append records a rating transition.
	Append(ctx context.Context, entry *entity.RatingHistoryEntry) error

	// FindByClient retrieves a client's transitions, newest first.
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.RatingHistoryEntry, error)
}
