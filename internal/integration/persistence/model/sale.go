// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealership/backoffice/internal/domain/entity"
)

// SaleModel represents the sales table in the database.
type SaleModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ClientID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	VehicleReference string          `gorm:"type:varchar(100)"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PenaltyPerPeriod decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PenaltyUnit      string          `gorm:"type:varchar(10);not null;default:'DAY'"`
	GracePeriodDays  int             `gorm:"not null;default:0"`
	SaleDate         time.Time       `gorm:"type:date;not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Client *ClientModel `gorm:"foreignKey:ClientID;references:ID"`
}

// TableName returns the table name for the SaleModel.
func (SaleModel) TableName() string {
	return "sales"
}

// ToEntity converts a SaleModel to a domain Sale entity.
func (m *SaleModel) ToEntity() *entity.Sale {
	return &entity.Sale{
		ID:               m.ID,
		ClientID:         m.ClientID,
		VehicleReference: m.VehicleReference,
		TotalAmount:      m.TotalAmount,
		PenaltyPerPeriod: m.PenaltyPerPeriod,
		PenaltyUnit:      entity.PeriodUnit(m.PenaltyUnit),
		GracePeriodDays:  m.GracePeriodDays,
		SaleDate:         m.SaleDate,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// SaleFromEntity creates a SaleModel from a domain Sale entity.
func SaleFromEntity(sale *entity.Sale) *SaleModel {
	return &SaleModel{
		ID:               sale.ID,
		ClientID:         sale.ClientID,
		VehicleReference: sale.VehicleReference,
		TotalAmount:      sale.TotalAmount,
		PenaltyPerPeriod: sale.PenaltyPerPeriod,
		PenaltyUnit:      string(sale.PenaltyUnit),
		GracePeriodDays:  sale.GracePeriodDays,
		SaleDate:         sale.SaleDate,
		CreatedAt:        sale.CreatedAt,
		UpdatedAt:        sale.UpdatedAt,
	}
}
