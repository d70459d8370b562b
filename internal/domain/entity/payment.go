// Package entity defines the core business entities for the dealership back office.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was settled.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCheck    PaymentMethod = "check"
)

// Payment records one settlement event against exactly one note. Payments are
// immutable once created; administrative corrections happen outside this core
// and are reconciled by re-running the full recompute.
type Payment struct {
	ID             uuid.UUID
	NoteID         uuid.UUID
	Amount         decimal.Decimal
	Date           time.Time
	DaysLate       int // days overdue at the time of payment
	PenaltyApplied decimal.Decimal
	Method         PaymentMethod
	ReceiptNumber  string
	CreatedAt      time.Time
}

// NewPayment creates a new Payment entity.
func NewPayment(
	noteID uuid.UUID,
	amount decimal.Decimal,
	date time.Time,
	daysLate int,
	penaltyApplied decimal.Decimal,
	method PaymentMethod,
	receiptNumber string,
) *Payment {
	return &Payment{
		ID:             uuid.New(),
		NoteID:         noteID,
		Amount:         amount,
		Date:           date,
		DaysLate:       daysLate,
		PenaltyApplied: penaltyApplied,
		Method:         method,
		ReceiptNumber:  receiptNumber,
		CreatedAt:      time.Now().UTC(),
	}
}

// IsValidPaymentMethod validates a payment method value.
func IsValidPaymentMethod(method PaymentMethod) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCheck:
		return true
	}
	return false
}
