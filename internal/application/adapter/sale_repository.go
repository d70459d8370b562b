// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// SaleRepository defines the interface for sale persistence operations.
type SaleRepository interface {
	// Create inserts a new sale.
	Create(ctx context.Context, sale *entity.Sale) error

	// FindByID retrieves a sale by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
}

// ClientRepository defines the interface for client persistence operations.
type ClientRepository interface {
	// Create inserts a new client.
	Create(ctx context.Context, client *entity.Client) error

	// FindByID retrieves a client by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)

	// UpdateRating writes the derived rating label and accumulated arrears.
	UpdateRating(ctx context.Context, id uuid.UUID, label string, accumulatedArrears decimal.Decimal) error
}
