// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// NotePage defines pagination options for ledger scans.
type NotePage struct {
	Offset int
	Limit  int
}

// NoteRepository defines the interface for note ledger persistence operations.
// The ledger performs no business validation; deriving balance and status is
// the reconciliation engine's job.
type NoteRepository interface {
	// Create inserts a new note into the ledger.
	Create(ctx context.Context, note *entity.Note) error

	// FindByID retrieves a note by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Note, error)

	// FindByIDForUpdate retrieves a note and locks its row for the duration
	// of the enclosing transaction, serializing concurrent reconciliations
	// of the same note.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Note, error)

	// FindBySale retrieves all notes of a sale ordered by installment sequence.
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]*entity.Note, error)

	// FindUnpaidByClient retrieves all pending/partial notes owned by a client.
	FindUnpaidByClient(ctx context.Context, clientID uuid.UUID) ([]*entity.Note, error)

	// CountByClient counts all notes owned by a client, settled or not.
	CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error)

	// UpdateBalanceAndStatus writes the reconciled state back to the ledger.
	UpdateBalanceAndStatus(
		ctx context.Context,
		id uuid.UUID,
		outstandingBalance decimal.Decimal,
		status entity.NoteStatus,
		cancelled bool,
	) error

	// FindAll pages through the whole ledger ordered by creation, for
	// consistency audits.
	FindAll(ctx context.Context, page NotePage) ([]*entity.Note, error)
}
