// Package reconciliation contains the note reconciliation engine use cases.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/application/usecase/rating"
	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
	"github.com/dealership/backoffice/internal/domain/valueobject"
)

// ReconcileNoteInput represents the input for reconciling one note.
type ReconcileNoteInput struct {
	NoteID              uuid.UUID
	TriggeringPaymentID *uuid.UUID
	AsOf                time.Time // zero value means "now"
}

// ReconcileNoteOutput represents the result of reconciling one note.
type ReconcileNoteOutput struct {
	Note          *entity.Note
	Result        valueobject.ReconciliationResult
	StateChanged  bool
	RatingSkipped bool
	Rating        *rating.RecomputeClientRatingOutput
}

// ReconcileNoteUseCase recomputes a note's settlement state from its full
// payment history and transitively recomputes the owning client's rating.
// This is the application-level replacement for the legacy database trigger:
// the rule lives here, callable and testable, not hidden in the schema.
type ReconcileNoteUseCase struct {
	noteRepo      adapter.NoteRepository
	paymentRepo   adapter.PaymentRepository
	saleRepo      adapter.SaleRepository
	ratingUseCase *rating.RecomputeClientRatingUseCase
	audit         adapter.AuditSink
}

// NewReconcileNoteUseCase creates a new ReconcileNoteUseCase instance.
func NewReconcileNoteUseCase(
	noteRepo adapter.NoteRepository,
	paymentRepo adapter.PaymentRepository,
	saleRepo adapter.SaleRepository,
	ratingUseCase *rating.RecomputeClientRatingUseCase,
	audit adapter.AuditSink,
) *ReconcileNoteUseCase {
	return &ReconcileNoteUseCase{
		noteRepo:      noteRepo,
		paymentRepo:   paymentRepo,
		saleRepo:      saleRepo,
		ratingUseCase: ratingUseCase,
		audit:         audit,
	}
}

// Execute performs the reconciliation. It must run inside the same
// transaction as the payment insert that triggered it; the note row lock
// taken here serializes concurrent recomputes of the same note.
func (uc *ReconcileNoteUseCase) Execute(ctx context.Context, input ReconcileNoteInput) (*ReconcileNoteOutput, error) {
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	note, err := uc.noteRepo.FindByIDForUpdate(ctx, input.NoteID)
	if err != nil {
		if errors.Is(err, domainerror.ErrNoteNotFound) {
			return nil, domainerror.NewNoteError(
				domainerror.ErrCodeNoteNotFound,
				fmt.Sprintf("note %s is not on the ledger", input.NoteID),
				err,
			)
		}
		return nil, err
	}

	payments, err := uc.paymentRepo.FindByNote(ctx, note.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment history: %w", err)
	}

	paymentAmounts := make([]decimal.Decimal, len(payments))
	for i, p := range payments {
		paymentAmounts[i] = p.Amount
	}

	result := valueobject.Reconcile(note.AmountDue, paymentAmounts)

	output := &ReconcileNoteOutput{Note: note, Result: result}

	if !result.Matches(note) {
		previous := noteSnapshot(note)

		if err := uc.noteRepo.UpdateBalanceAndStatus(
			ctx, note.ID, result.OutstandingBalance, result.Status, result.Cancelled,
		); err != nil {
			return nil, fmt.Errorf("failed to write reconciled note state: %w", err)
		}

		note.Status = result.Status
		note.OutstandingBalance = result.OutstandingBalance
		note.Cancelled = result.Cancelled
		output.StateChanged = true

		uc.audit.Record(ctx, adapter.AuditRecord{
			Action:       "reconcile",
			Table:        "notes",
			RecordID:     note.ID.String(),
			PreviousData: previous,
			NewData:      noteSnapshot(note),
			Details:      fmt.Sprintf("recomputed from %d payment(s)", len(payments)),
		})
	}

	// The note update is self-contained: a note that cannot be traced to its
	// sale or client still commits, and only the rating step is skipped.
	sale, err := uc.saleRepo.FindByID(ctx, note.SaleID)
	if err != nil {
		if errors.Is(err, domainerror.ErrSaleNotFound) {
			uc.warnUnresolvedOwnership(note.ID, err)
			output.RatingSkipped = true
			return output, nil
		}
		return nil, fmt.Errorf("failed to resolve owning sale: %w", err)
	}

	ratingOutput, err := uc.ratingUseCase.Execute(ctx, rating.RecomputeClientRatingInput{
		ClientID:            sale.ClientID,
		TriggeringPaymentID: input.TriggeringPaymentID,
		AsOf:                asOf,
	})
	if err != nil {
		if errors.Is(err, domainerror.ErrClientNotFound) {
			uc.warnUnresolvedOwnership(note.ID, err)
			output.RatingSkipped = true
			return output, nil
		}
		// A missing or misconfigured rating policy degrades the rating step
		// only; payment recording must never depend on it. The policy fault
		// itself is reported at startup and on every recompute attempt.
		var ratingErr *domainerror.RatingError
		if errors.As(err, &ratingErr) {
			slog.Warn("Skipping rating recompute, rating policy unusable",
				"noteID", note.ID,
				"code", ratingErr.Code,
				"error", err,
			)
			output.RatingSkipped = true
			return output, nil
		}
		return nil, err
	}

	output.Rating = ratingOutput
	return output, nil
}

func (uc *ReconcileNoteUseCase) warnUnresolvedOwnership(noteID uuid.UUID, err error) {
	slog.Warn("Skipping rating recompute, note ownership unresolved",
		"noteID", noteID,
		"error", domainerror.NewNoteError(
			domainerror.ErrCodeUnresolvedOwnership,
			fmt.Sprintf("ownership of note %s could not be resolved", noteID),
			errors.Join(domainerror.ErrUnresolvedOwnership, err),
		),
	)
}

func noteSnapshot(note *entity.Note) map[string]any {
	return map[string]any{
		"status":              string(note.Status),
		"outstanding_balance": note.OutstandingBalance.String(),
		"cancelled":           note.Cancelled,
	}
}
