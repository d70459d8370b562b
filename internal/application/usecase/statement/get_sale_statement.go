// Package statement contains sale statement reporting use cases.
package statement

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
	"github.com/dealership/backoffice/internal/domain/valueobject"
)

// GetSaleStatementInput represents the input for building a sale statement.
type GetSaleStatementInput struct {
	SaleID uuid.UUID
	AsOf   time.Time // zero value means "now"
}

// StatementLine is one note of the sale with its accrued mora and the balance
// remaining after it, in installment order.
type StatementLine struct {
	NoteID             uuid.UUID
	Sequence           int
	Kind               entity.ObligationKind
	AmountDue          decimal.Decimal
	DueDate            time.Time
	Status             entity.NoteStatus
	OutstandingBalance decimal.Decimal
	DaysOverdue        int
	PenaltyAccrued     decimal.Decimal
	RemainingAfter     decimal.Decimal
}

// GetSaleStatementOutput represents a sale statement.
type GetSaleStatementOutput struct {
	SaleID           uuid.UUID
	AsOf             time.Time
	TotalOutstanding decimal.Decimal
	TotalPenalty     decimal.Decimal
	Lines            []StatementLine
}

// GetSaleStatementUseCase builds the per-sale account statement: every note
// in sequence order with days overdue, accrued penalty, and a running
// "remaining balance after this installment" column.
type GetSaleStatementUseCase struct {
	noteRepo adapter.NoteRepository
	saleRepo adapter.SaleRepository
}

// NewGetSaleStatementUseCase creates a new GetSaleStatementUseCase instance.
func NewGetSaleStatementUseCase(
	noteRepo adapter.NoteRepository,
	saleRepo adapter.SaleRepository,
) *GetSaleStatementUseCase {
	return &GetSaleStatementUseCase{
		noteRepo: noteRepo,
		saleRepo: saleRepo,
	}
}

// Execute builds the statement.
func (uc *GetSaleStatementUseCase) Execute(ctx context.Context, input GetSaleStatementInput) (*GetSaleStatementOutput, error) {
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	sale, err := uc.saleRepo.FindByID(ctx, input.SaleID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSaleNotFound) {
			return nil, domainerror.NewNoteError(
				domainerror.ErrCodeSaleNotFound,
				fmt.Sprintf("sale %s is not booked", input.SaleID),
				err,
			)
		}
		return nil, err
	}

	notes, err := uc.noteRepo.FindBySale(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sale notes: %w", err)
	}

	// Running total starts at the sum of all outstanding balances and each
	// line subtracts its own, so the last unpaid line reads zero remaining.
	totalOutstanding := decimal.Zero
	for _, note := range notes {
		totalOutstanding = totalOutstanding.Add(note.OutstandingBalance)
	}

	output := &GetSaleStatementOutput{
		SaleID:           sale.ID,
		AsOf:             asOf,
		TotalOutstanding: totalOutstanding,
		TotalPenalty:     decimal.Zero,
		Lines:            make([]StatementLine, 0, len(notes)),
	}

	running := totalOutstanding
	for _, note := range notes {
		daysOverdue := 0
		penalty := decimal.Zero
		if note.IsOverdue(asOf) {
			daysOverdue = valueobject.DaysOverdue(note.DueDate, asOf)
			penalty = valueobject.Penalty(daysOverdue, sale.GracePeriodDays, sale.PenaltyUnit.Days(), sale.PenaltyPerPeriod)
		}

		running = running.Sub(note.OutstandingBalance)
		output.TotalPenalty = output.TotalPenalty.Add(penalty)

		output.Lines = append(output.Lines, StatementLine{
			NoteID:             note.ID,
			Sequence:           note.Sequence,
			Kind:               note.Kind,
			AmountDue:          note.AmountDue,
			DueDate:            note.DueDate,
			Status:             note.Status,
			OutstandingBalance: note.OutstandingBalance,
			DaysOverdue:        daysOverdue,
			PenaltyAccrued:     penalty,
			RemainingAfter:     running,
		})
	}

	return output, nil
}
