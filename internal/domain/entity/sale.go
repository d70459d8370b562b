// Package entity defines the core business entities for the dealership back office.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodUnit represents the accrual period for late-payment penalties.
type PeriodUnit string

const (
	PeriodUnitDay   PeriodUnit = "DAY"
	PeriodUnitWeek  PeriodUnit = "WEEK"
	PeriodUnitMonth PeriodUnit = "MONTH"
	PeriodUnitYear  PeriodUnit = "YEAR"
)

// Days returns the fixed length of the period in days. Months and years use
// the commercial 30/365 convention the legacy schedules were written against.
func (u PeriodUnit) Days() int {
	switch u {
	case PeriodUnitWeek:
		return 7
	case PeriodUnitMonth:
		return 30
	case PeriodUnitYear:
		return 365
	default:
		return 1
	}
}

// IsValidPeriodUnit validates a period unit value.
func IsValidPeriodUnit(unit PeriodUnit) bool {
	switch unit {
	case PeriodUnitDay, PeriodUnitWeek, PeriodUnitMonth, PeriodUnitYear:
		return true
	}
	return false
}

// Sale represents a booked vehicle sale. It owns the sale's notes and carries
// the penalty schedule used to accrue late interest on them.
type Sale struct {
	ID               uuid.UUID
	ClientID         uuid.UUID
	VehicleReference string
	TotalAmount      decimal.Decimal
	PenaltyPerPeriod decimal.Decimal
	PenaltyUnit      PeriodUnit
	GracePeriodDays  int
	SaleDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewSale creates a new Sale entity.
func NewSale(
	clientID uuid.UUID,
	vehicleReference string,
	totalAmount decimal.Decimal,
	penaltyPerPeriod decimal.Decimal,
	penaltyUnit PeriodUnit,
	gracePeriodDays int,
	saleDate time.Time,
) *Sale {
	now := time.Now().UTC()

	return &Sale{
		ID:               uuid.New(),
		ClientID:         clientID,
		VehicleReference: vehicleReference,
		TotalAmount:      totalAmount,
		PenaltyPerPeriod: penaltyPerPeriod,
		PenaltyUnit:      penaltyUnit,
		GracePeriodDays:  gracePeriodDays,
		SaleDate:         saleDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
