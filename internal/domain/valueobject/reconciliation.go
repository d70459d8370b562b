// Package valueobject contains domain value objects for the dealership back office.
package valueobject

import (
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// ReconciliationResult is the derived settlement state of a note given its
// full payment history.
type ReconciliationResult struct {
	Status             entity.NoteStatus
	OutstandingBalance decimal.Decimal
	Cancelled          bool
	TotalPaid          decimal.Decimal
	Overpayment        decimal.Decimal // excess beyond amount due, absorbed (never refunded here)
}

// Reconcile derives a note's status, outstanding balance and cancelled flag
// from the full set of payment amounts applied to it.
//
// The recompute always runs over the complete history rather than patching
// the previous state incrementally: administrative corrections to historical
// payments must re-derive a consistent state, and incremental patching is the
// known source of drifted ledgers (PAID notes with no payments on file).
//
// Rules:
//   - total >= amount due resolves to PAID with a zero balance and
//     cancelled=true; an exact tie is PAID, never PARTIAL.
//   - any positive total below amount due is PARTIAL.
//   - a zero total is PENDING.
//   - overpayment is floored at zero balance and reported in Overpayment.
func Reconcile(amountDue decimal.Decimal, paymentAmounts []decimal.Decimal) ReconciliationResult {
	totalPaid := decimal.Zero
	for _, amount := range paymentAmounts {
		totalPaid = totalPaid.Add(amount)
	}

	if totalPaid.GreaterThanOrEqual(amountDue) {
		return ReconciliationResult{
			Status:             entity.NoteStatusPaid,
			OutstandingBalance: decimal.Zero,
			Cancelled:          true,
			TotalPaid:          totalPaid,
			Overpayment:        totalPaid.Sub(amountDue),
		}
	}

	status := entity.NoteStatusPending
	if totalPaid.IsPositive() {
		status = entity.NoteStatusPartial
	}

	return ReconciliationResult{
		Status:             status,
		OutstandingBalance: amountDue.Sub(totalPaid),
		Cancelled:          false,
		TotalPaid:          totalPaid,
		Overpayment:        decimal.Zero,
	}
}

// Matches reports whether a stored note already reflects the derived state.
// Used both to skip no-op writes and to detect drifted ledgers.
func (r ReconciliationResult) Matches(note *entity.Note) bool {
	return note.Status == r.Status &&
		note.OutstandingBalance.Equal(r.OutstandingBalance) &&
		note.Cancelled == r.Cancelled
}
