// Package payment contains payment registration use cases.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/application/usecase/reconciliation"
	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
	"github.com/dealership/backoffice/internal/domain/valueobject"
)

// MaxReceiptNumberLength is the maximum allowed length for receipt numbers.
const MaxReceiptNumberLength = 64

// RegisterPaymentInput represents the input for payment registration.
type RegisterPaymentInput struct {
	NoteID        uuid.UUID
	Amount        decimal.Decimal
	Date          time.Time
	Method        entity.PaymentMethod
	ReceiptNumber string
}

// RegisterPaymentOutput represents the result of payment registration.
type RegisterPaymentOutput struct {
	Payment        *entity.Payment
	Note           *entity.Note
	DaysLate       int
	PenaltyApplied decimal.Decimal
	Overpayment    decimal.Decimal
	RatingSkipped  bool
}

// RegisterPaymentUseCase persists a payment against a note and synchronously
// reconciles the note, the owning client's rating and the rating history, all
// inside one transaction. Callers retry the whole use case on failure; there
// is no partial recovery.
type RegisterPaymentUseCase struct {
	noteRepo    adapter.NoteRepository
	paymentRepo adapter.PaymentRepository
	saleRepo    adapter.SaleRepository
	reconcile   *reconciliation.ReconcileNoteUseCase
	txManager   adapter.TxManager
	audit       adapter.AuditSink
}

// NewRegisterPaymentUseCase creates a new RegisterPaymentUseCase instance.
func NewRegisterPaymentUseCase(
	noteRepo adapter.NoteRepository,
	paymentRepo adapter.PaymentRepository,
	saleRepo adapter.SaleRepository,
	reconcile *reconciliation.ReconcileNoteUseCase,
	txManager adapter.TxManager,
	audit adapter.AuditSink,
) *RegisterPaymentUseCase {
	return &RegisterPaymentUseCase{
		noteRepo:    noteRepo,
		paymentRepo: paymentRepo,
		saleRepo:    saleRepo,
		reconcile:   reconcile,
		txManager:   txManager,
		audit:       audit,
	}
}

// Execute performs the payment registration.
func (uc *RegisterPaymentUseCase) Execute(ctx context.Context, input RegisterPaymentInput) (*RegisterPaymentOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var output *RegisterPaymentOutput

	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		// Lock the note first: concurrent payments against the same note must
		// serialize, or both would recompute from the same stale history.
		note, err := uc.noteRepo.FindByIDForUpdate(ctx, input.NoteID)
		if err != nil {
			if errors.Is(err, domainerror.ErrNoteNotFound) {
				return domainerror.NewPaymentError(
					domainerror.ErrCodePaymentNoteNotFound,
					fmt.Sprintf("note %s is not on the ledger", input.NoteID),
					err,
				)
			}
			return err
		}

		daysLate, penalty := uc.accruedMora(ctx, note, input.Date)

		if note.Status == entity.NoteStatusPaid {
			// Legacy behavior: payments beyond a settled note are absorbed.
			slog.Warn("Payment registered against a settled note",
				"noteID", note.ID,
				"receiptNumber", input.ReceiptNumber,
				"amount", input.Amount,
			)
		}

		pay := entity.NewPayment(
			note.ID, input.Amount, input.Date, daysLate, penalty,
			input.Method, input.ReceiptNumber,
		)
		if err := uc.paymentRepo.Create(ctx, pay); err != nil {
			if errors.Is(err, domainerror.ErrDuplicateReceipt) {
				return domainerror.NewPaymentError(
					domainerror.ErrCodeDuplicateReceipt,
					fmt.Sprintf("receipt %q is already registered", input.ReceiptNumber),
					err,
				)
			}
			return fmt.Errorf("failed to persist payment: %w", err)
		}

		uc.audit.Record(ctx, adapter.AuditRecord{
			Action:   "payment_registered",
			Table:    "payments",
			RecordID: pay.ID.String(),
			NewData: map[string]any{
				"note_id":         pay.NoteID.String(),
				"amount":          pay.Amount.String(),
				"days_late":       pay.DaysLate,
				"penalty_applied": pay.PenaltyApplied.String(),
				"method":          string(pay.Method),
				"receipt_number":  pay.ReceiptNumber,
			},
			Details: fmt.Sprintf("payment of %s against note %s", pay.Amount, pay.NoteID),
		})

		reconciled, err := uc.reconcile.Execute(ctx, reconciliation.ReconcileNoteInput{
			NoteID:              note.ID,
			TriggeringPaymentID: &pay.ID,
			AsOf:                input.Date,
		})
		if err != nil {
			return err
		}

		if reconciled.Result.Overpayment.IsPositive() {
			slog.Warn("Overpayment absorbed",
				"noteID", note.ID,
				"receiptNumber", pay.ReceiptNumber,
				"excess", reconciled.Result.Overpayment,
			)
		}

		output = &RegisterPaymentOutput{
			Payment:        pay,
			Note:           reconciled.Note,
			DaysLate:       daysLate,
			PenaltyApplied: penalty,
			Overpayment:    reconciled.Result.Overpayment,
			RatingSkipped:  reconciled.RatingSkipped,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return output, nil
}

// accruedMora computes days late and penalty as of the payment date using the
// owning sale's schedule. A note without a resolvable sale still takes the
// payment; it just accrues no penalty.
func (uc *RegisterPaymentUseCase) accruedMora(ctx context.Context, note *entity.Note, paymentDate time.Time) (int, decimal.Decimal) {
	daysLate := valueobject.DaysOverdue(note.DueDate, paymentDate)

	sale, err := uc.saleRepo.FindByID(ctx, note.SaleID)
	if err != nil {
		slog.Warn("Penalty schedule unavailable, registering payment without penalty",
			"noteID", note.ID,
			"error", err,
		)
		return daysLate, decimal.Zero
	}

	penalty := valueobject.Penalty(daysLate, sale.GracePeriodDays, sale.PenaltyUnit.Days(), sale.PenaltyPerPeriod)
	return daysLate, penalty
}

func validateInput(input RegisterPaymentInput) error {
	if !input.Amount.IsPositive() {
		return domainerror.NewPaymentError(
			domainerror.ErrCodeInvalidPaymentAmount,
			"payment amount must be positive",
			domainerror.ErrInvalidPaymentAmount,
		)
	}
	if !entity.IsValidPaymentMethod(input.Method) {
		return domainerror.NewPaymentError(
			domainerror.ErrCodeInvalidPaymentMethod,
			"payment method must be 'cash', 'transfer', 'card' or 'check'",
			domainerror.ErrInvalidPaymentMethod,
		)
	}
	if input.ReceiptNumber == "" || len(input.ReceiptNumber) > MaxReceiptNumberLength {
		return domainerror.NewPaymentError(
			domainerror.ErrCodeMissingReceipt,
			fmt.Sprintf("receipt number is required and must not exceed %d characters", MaxReceiptNumberLength),
			domainerror.ErrMissingReceiptNumber,
		)
	}
	return nil
}
