// Package sale contains sale booking use cases.
package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
)

// BookSaleNoteInput describes one scheduled obligation of the sale being
// booked. Sequence is assigned from the slice order.
type BookSaleNoteInput struct {
	Kind      entity.ObligationKind
	AmountDue decimal.Decimal
	DueDate   time.Time
}

// BookSaleInput represents the input for booking a vehicle sale.
type BookSaleInput struct {
	ClientID         uuid.UUID
	VehicleReference string
	TotalAmount      decimal.Decimal
	PenaltyPerPeriod decimal.Decimal
	PenaltyUnit      entity.PeriodUnit
	GracePeriodDays  int
	SaleDate         time.Time
	Notes            []BookSaleNoteInput
}

// BookSaleOutput represents the result of booking a sale.
type BookSaleOutput struct {
	Sale  *entity.Sale
	Notes []*entity.Note
}

// BookSaleUseCase books a sale and opens its notes on the ledger in one
// transaction. Notes enter the ledger PENDING with their full balance
// outstanding; only reconciliation mutates them afterwards.
type BookSaleUseCase struct {
	clientRepo adapter.ClientRepository
	saleRepo   adapter.SaleRepository
	noteRepo   adapter.NoteRepository
	txManager  adapter.TxManager
	audit      adapter.AuditSink
}

// NewBookSaleUseCase creates a new BookSaleUseCase instance.
func NewBookSaleUseCase(
	clientRepo adapter.ClientRepository,
	saleRepo adapter.SaleRepository,
	noteRepo adapter.NoteRepository,
	txManager adapter.TxManager,
	audit adapter.AuditSink,
) *BookSaleUseCase {
	return &BookSaleUseCase{
		clientRepo: clientRepo,
		saleRepo:   saleRepo,
		noteRepo:   noteRepo,
		txManager:  txManager,
		audit:      audit,
	}
}

// Execute performs the sale booking.
func (uc *BookSaleUseCase) Execute(ctx context.Context, input BookSaleInput) (*BookSaleOutput, error) {
	if err := validateSchedule(input); err != nil {
		return nil, err
	}

	if _, err := uc.clientRepo.FindByID(ctx, input.ClientID); err != nil {
		if errors.Is(err, domainerror.ErrClientNotFound) {
			return nil, domainerror.NewNoteError(
				domainerror.ErrCodeClientNotFound,
				fmt.Sprintf("client %s is not registered", input.ClientID),
				err,
			)
		}
		return nil, err
	}

	var output *BookSaleOutput

	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		sale := entity.NewSale(
			input.ClientID, input.VehicleReference, input.TotalAmount,
			input.PenaltyPerPeriod, input.PenaltyUnit, input.GracePeriodDays,
			input.SaleDate,
		)
		if err := uc.saleRepo.Create(ctx, sale); err != nil {
			return fmt.Errorf("failed to persist sale: %w", err)
		}

		notes := make([]*entity.Note, len(input.Notes))
		for i, n := range input.Notes {
			note := entity.NewNote(sale.ID, i+1, n.Kind, n.AmountDue, n.DueDate)
			if err := uc.noteRepo.Create(ctx, note); err != nil {
				return fmt.Errorf("failed to persist note %d: %w", i+1, err)
			}
			notes[i] = note
		}

		uc.audit.Record(ctx, adapter.AuditRecord{
			Action:   "sale_booked",
			Table:    "sales",
			RecordID: sale.ID.String(),
			NewData: map[string]any{
				"client_id":         sale.ClientID.String(),
				"vehicle_reference": sale.VehicleReference,
				"total_amount":      sale.TotalAmount.String(),
				"notes":             len(notes),
			},
			Details: fmt.Sprintf("sale of %s booked with %d notes", sale.VehicleReference, len(notes)),
		})

		output = &BookSaleOutput{Sale: sale, Notes: notes}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// validateSchedule rejects schedules that would open an inconsistent ledger:
// unknown obligation kinds, non-positive amounts, or note amounts that do not
// add up to the sale total.
func validateSchedule(input BookSaleInput) error {
	if len(input.Notes) == 0 {
		return domainerror.NewNoteError(
			domainerror.ErrCodeInvariantViolation,
			"a sale must carry at least one note",
			domainerror.ErrInvariantViolation,
		)
	}
	if !entity.IsValidPeriodUnit(input.PenaltyUnit) {
		return domainerror.NewNoteError(
			domainerror.ErrCodeInvariantViolation,
			fmt.Sprintf("unknown penalty period unit %q", input.PenaltyUnit),
			domainerror.ErrInvariantViolation,
		)
	}

	scheduled := decimal.Zero
	for i, n := range input.Notes {
		if !entity.IsValidObligationKind(n.Kind) {
			return domainerror.NewNoteError(
				domainerror.ErrCodeInvalidKind,
				fmt.Sprintf("note %d: unknown obligation kind %q", i+1, n.Kind),
				domainerror.ErrInvalidObligationKind,
			)
		}
		if !n.AmountDue.IsPositive() {
			return domainerror.NewNoteError(
				domainerror.ErrCodeInvariantViolation,
				fmt.Sprintf("note %d: amount due must be positive", i+1),
				domainerror.ErrInvariantViolation,
			)
		}
		scheduled = scheduled.Add(n.AmountDue)
	}

	if !scheduled.Equal(input.TotalAmount) {
		return domainerror.NewNoteError(
			domainerror.ErrCodeInvariantViolation,
			fmt.Sprintf("scheduled notes add up to %s, sale total is %s", scheduled, input.TotalAmount),
			domainerror.ErrInvariantViolation,
		)
	}
	return nil
}
