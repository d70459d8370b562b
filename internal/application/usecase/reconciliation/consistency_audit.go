// Package reconciliation contains the note reconciliation engine use cases.
package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/application/adapter"
	"github.com/dealership/backoffice/internal/domain/entity"
	"github.com/dealership/backoffice/internal/domain/valueobject"
)

const defaultAuditBatchSize = 500

// ConsistencyAuditInput represents the input for a ledger consistency audit.
type ConsistencyAuditInput struct {
	Repair    bool // re-run the reconciliation write path for drifted notes
	BatchSize int
	AsOf      time.Time // zero value means "now"
}

// DriftFinding describes one note whose stored state contradicts the state
// derived from its payment journal.
type DriftFinding struct {
	NoteID            uuid.UUID
	PaymentCount      int
	StoredStatus      entity.NoteStatus
	ExpectedStatus    entity.NoteStatus
	StoredBalance     decimal.Decimal
	ExpectedBalance   decimal.Decimal
	StoredCancelled   bool
	ExpectedCancelled bool
}

// PaidWithoutPayments reports the classic trigger-era bug: a note marked PAID
// with no payments on file.
func (f DriftFinding) PaidWithoutPayments() bool {
	return f.StoredStatus == entity.NoteStatusPaid && f.PaymentCount == 0
}

// ConsistencyAuditOutput represents the result of a ledger consistency audit.
type ConsistencyAuditOutput struct {
	Scanned  int
	Findings []DriftFinding
	Repaired int
}

// ConsistencyAuditUseCase scans the whole note ledger, re-derives each note's
// state from its payment journal, and reports (optionally repairs) drift.
// This replaces the legacy one-off diagnostic scripts with a first-class,
// repeatable operation.
type ConsistencyAuditUseCase struct {
	noteRepo    adapter.NoteRepository
	paymentRepo adapter.PaymentRepository
	txManager   adapter.TxManager
	reconcile   *ReconcileNoteUseCase
}

// NewConsistencyAuditUseCase creates a new ConsistencyAuditUseCase instance.
func NewConsistencyAuditUseCase(
	noteRepo adapter.NoteRepository,
	paymentRepo adapter.PaymentRepository,
	txManager adapter.TxManager,
	reconcile *ReconcileNoteUseCase,
) *ConsistencyAuditUseCase {
	return &ConsistencyAuditUseCase{
		noteRepo:    noteRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		reconcile:   reconcile,
	}
}

// Execute performs the audit. The scan itself is read-only; repairs run one
// transaction per note so a failure leaves prior repairs committed.
func (uc *ConsistencyAuditUseCase) Execute(ctx context.Context, input ConsistencyAuditInput) (*ConsistencyAuditOutput, error) {
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	batchSize := input.BatchSize
	if batchSize <= 0 {
		batchSize = defaultAuditBatchSize
	}

	output := &ConsistencyAuditOutput{}

	for offset := 0; ; offset += batchSize {
		notes, err := uc.noteRepo.FindAll(ctx, adapter.NotePage{Offset: offset, Limit: batchSize})
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger at offset %d: %w", offset, err)
		}
		if len(notes) == 0 {
			break
		}

		for _, note := range notes {
			output.Scanned++

			payments, err := uc.paymentRepo.FindByNote(ctx, note.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load payments for note %s: %w", note.ID, err)
			}

			paymentAmounts := make([]decimal.Decimal, len(payments))
			for i, p := range payments {
				paymentAmounts[i] = p.Amount
			}

			result := valueobject.Reconcile(note.AmountDue, paymentAmounts)
			if result.Matches(note) {
				continue
			}

			finding := DriftFinding{
				NoteID:            note.ID,
				PaymentCount:      len(payments),
				StoredStatus:      note.Status,
				ExpectedStatus:    result.Status,
				StoredBalance:     note.OutstandingBalance,
				ExpectedBalance:   result.OutstandingBalance,
				StoredCancelled:   note.Cancelled,
				ExpectedCancelled: result.Cancelled,
			}
			output.Findings = append(output.Findings, finding)

			slog.Warn("Ledger drift detected",
				"noteID", note.ID,
				"storedStatus", note.Status,
				"expectedStatus", result.Status,
				"storedBalance", note.OutstandingBalance,
				"expectedBalance", result.OutstandingBalance,
				"payments", len(payments),
				"paidWithoutPayments", finding.PaidWithoutPayments(),
			)

			if !input.Repair {
				continue
			}

			err = uc.txManager.Do(ctx, func(ctx context.Context) error {
				_, err := uc.reconcile.Execute(ctx, ReconcileNoteInput{NoteID: note.ID, AsOf: asOf})
				return err
			})
			if err != nil {
				return output, fmt.Errorf("failed to repair note %s: %w", note.ID, err)
			}
			output.Repaired++
		}

		if len(notes) < batchSize {
			break
		}
	}

	return output, nil
}
