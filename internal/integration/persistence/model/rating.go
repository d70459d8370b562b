// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// RatingBandModel represents the rating_bands table. Bands are admin-managed
// outside this core; the core only reads ordered snapshots.
type RatingBandModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	DaysFrom int       `gorm:"not null;index"`
	DaysTo   *int      // nil means unbounded
	Label    string    `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for the RatingBandModel.
func (RatingBandModel) TableName() string {
	return "rating_bands"
}

// ToEntity converts a RatingBandModel to a domain RatingBand entity.
func (m *RatingBandModel) ToEntity() *entity.RatingBand {
	return &entity.RatingBand{
		ID:       m.ID,
		DaysFrom: m.DaysFrom,
		DaysTo:   m.DaysTo,
		Label:    m.Label,
	}
}

// RatingBandFromEntity creates a RatingBandModel from a domain RatingBand entity.
func RatingBandFromEntity(band *entity.RatingBand) *RatingBandModel {
	return &RatingBandModel{
		ID:       band.ID,
		DaysFrom: band.DaysFrom,
		DaysTo:   band.DaysTo,
		Label:    band.Label,
	}
}

// RatingHistoryModel represents the append-only rating_history table.
type RatingHistoryModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ClientID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	PreviousLabel string     `gorm:"type:varchar(50);not null"`
	NewLabel      string     `gorm:"type:varchar(50);not null"`
	PaymentID     *uuid.UUID `gorm:"type:uuid;index"`
	Reason        string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for the RatingHistoryModel.
func (RatingHistoryModel) TableName() string {
	return "rating_history"
}

// ToEntity converts a RatingHistoryModel to a domain RatingHistoryEntry entity.
func (m *RatingHistoryModel) ToEntity() *entity.RatingHistoryEntry {
	return &entity.RatingHistoryEntry{
		ID:            m.ID,
		ClientID:      m.ClientID,
		PreviousLabel: m.PreviousLabel,
		NewLabel:      m.NewLabel,
		PaymentID:     m.PaymentID,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

// RatingHistoryFromEntity creates a RatingHistoryModel from a domain entity.
func RatingHistoryFromEntity(entry *entity.RatingHistoryEntry) *RatingHistoryModel {
	return &RatingHistoryModel{
		ID:            entry.ID,
		ClientID:      entry.ClientID,
		PreviousLabel: entry.PreviousLabel,
		NewLabel:      entry.NewLabel,
		PaymentID:     entry.PaymentID,
		Reason:        entry.Reason,
		CreatedAt:     entry.CreatedAt,
	}
}
