// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// PaymentRepository defines the interface for the append-only payment journal.
type PaymentRepository interface {
	// Create appends a payment to the journal. Returns
	// domainerror.ErrDuplicateReceipt when the receipt number is taken.
	Create(ctx context.Context, payment *entity.Payment) error

	// FindByNote retrieves the full payment history of a note ordered by
	// payment date.
	FindByNote(ctx context.Context, noteID uuid.UUID) ([]*entity.Payment, error)
}
