// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// NoteModel represents the notes table in the database. Notes are financial
// records and carry no soft-delete: they are never removed.
type NoteModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID             uuid.UUID       `gorm:"type:uuid;not null;index"`
	Sequence           int             `gorm:"not null"`
	Kind               string          `gorm:"type:varchar(20);not null"`
	AmountDue          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DueDate            time.Time       `gorm:"type:date;not null;index"`
	Status             string          `gorm:"type:varchar(10);not null;index"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Cancelled          bool            `gorm:"not null;default:false"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Sale *SaleModel `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for the NoteModel.
func (NoteModel) TableName() string {
	return "notes"
}

// ToEntity converts a NoteModel to a domain Note entity.
func (m *NoteModel) ToEntity() *entity.Note {
	return &entity.Note{
		ID:                 m.ID,
		SaleID:             m.SaleID,
		Sequence:           m.Sequence,
		Kind:               entity.ObligationKind(m.Kind),
		AmountDue:          m.AmountDue,
		DueDate:            m.DueDate,
		Status:             entity.NoteStatus(m.Status),
		OutstandingBalance: m.OutstandingBalance,
		Cancelled:          m.Cancelled,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

// NoteFromEntity creates a NoteModel from a domain Note entity.
func NoteFromEntity(note *entity.Note) *NoteModel {
	return &NoteModel{
		ID:                 note.ID,
		SaleID:             note.SaleID,
		Sequence:           note.Sequence,
		Kind:               string(note.Kind),
		AmountDue:          note.AmountDue,
		DueDate:            note.DueDate,
		Status:             string(note.Status),
		OutstandingBalance: note.OutstandingBalance,
		Cancelled:          note.Cancelled,
		CreatedAt:          note.CreatedAt,
		UpdatedAt:          note.UpdatedAt,
	}
}
