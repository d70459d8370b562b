// Package entity defines the core business entities for the dealership back office.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoteStatus represents the persisted settlement status of a note.
// Overdue is a derivation (due date vs. a reference date), never stored.
type NoteStatus string

const (
	NoteStatusPending NoteStatus = "PENDING"
	NoteStatusPartial NoteStatus = "PARTIAL"
	NoteStatusPaid    NoteStatus = "PAID"
)

// ObligationKind represents the kind of scheduled obligation a note covers.
type ObligationKind string

const (
	ObligationKindInstallment   ObligationKind = "INSTALLMENT"
	ObligationKindDownPayment   ObligationKind = "DOWN_PAYMENT"
	ObligationKindReinforcement ObligationKind = "REINFORCEMENT"
)

// Note represents one scheduled payment obligation (pagaré) belonging to a sale.
// Notes are financial records: they are created when a sale is booked, mutated
// only by reconciliation, and never physically deleted.
type Note struct {
	ID                 uuid.UUID
	SaleID             uuid.UUID
	Sequence           int // installment index within the sale
	Kind               ObligationKind
	AmountDue          decimal.Decimal
	DueDate            time.Time
	Status             NoteStatus
	OutstandingBalance decimal.Decimal
	Cancelled          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewNote creates a new Note entity in its initial state: PENDING, full
// outstanding balance, not cancelled.
func NewNote(
	saleID uuid.UUID,
	sequence int,
	kind ObligationKind,
	amountDue decimal.Decimal,
	dueDate time.Time,
) *Note {
	now := time.Now().UTC()

	return &Note{
		ID:                 uuid.New(),
		SaleID:             saleID,
		Sequence:           sequence,
		Kind:               kind,
		AmountDue:          amountDue,
		DueDate:            dueDate,
		Status:             NoteStatusPending,
		OutstandingBalance: amountDue,
		Cancelled:          false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// IsOverdue reports whether the note is past due as of the given reference
// date. Paid notes are never overdue.
func (n *Note) IsOverdue(asOf time.Time) bool {
	if n.Status == NoteStatusPaid {
		return false
	}
	due := n.DueDate.UTC().Truncate(24 * time.Hour)
	ref := asOf.UTC().Truncate(24 * time.Hour)
	return ref.After(due)
}

// IsSettled reports whether the note carries no remaining obligation.
func (n *Note) IsSettled() bool {
	return n.Status == NoteStatusPaid && n.OutstandingBalance.IsZero()
}

// IsValidObligationKind validates an obligation kind value.
func IsValidObligationKind(kind ObligationKind) bool {
	switch kind {
	case ObligationKindInstallment, ObligationKindDownPayment, ObligationKindReinforcement:
		return true
	}
	return false
}
