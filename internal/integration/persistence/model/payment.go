// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// PaymentModel represents the payments table in the database. The journal is
// append-only; rows are never updated or deleted by the core.
type PaymentModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	NoteID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Date           time.Time       `gorm:"type:date;not null;index"`
	DaysLate       int             `gorm:"not null;default:0"`
	PenaltyApplied decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Method         string          `gorm:"type:varchar(10);not null"`
	ReceiptNumber  string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt      time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Note *NoteModel `gorm:"foreignKey:NoteID;references:ID"`
}

// TableName returns the table name for the PaymentModel.
func (PaymentModel) TableName() string {
	return "payments"
}

// ToEntity converts a PaymentModel to a domain Payment entity.
func (m *PaymentModel) ToEntity() *entity.Payment {
	return &entity.Payment{
		ID:             m.ID,
		NoteID:         m.NoteID,
		Amount:         m.Amount,
		Date:           m.Date,
		DaysLate:       m.DaysLate,
		PenaltyApplied: m.PenaltyApplied,
		Method:         entity.PaymentMethod(m.Method),
		ReceiptNumber:  m.ReceiptNumber,
		CreatedAt:      m.CreatedAt,
	}
}

// PaymentFromEntity creates a PaymentModel from a domain Payment entity.
func PaymentFromEntity(payment *entity.Payment) *PaymentModel {
	return &PaymentModel{
		ID:             payment.ID,
		NoteID:         payment.NoteID,
		Amount:         payment.Amount,
		Date:           payment.Date,
		DaysLate:       payment.DaysLate,
		PenaltyApplied: payment.PenaltyApplied,
		Method:         string(payment.Method),
		ReceiptNumber:  payment.ReceiptNumber,
		CreatedAt:      payment.CreatedAt,
	}
}
