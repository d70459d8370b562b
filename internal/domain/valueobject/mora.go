// Package valueobject contains domain value objects for the dealership back office.
package valueobject

import (
	"time"

	"github.com/shopspring/decimal"
)

// DaysOverdue returns the number of whole days a due date is past as of the
// reference date, never negative. Both instants are compared at day
// granularity in UTC.
func DaysOverdue(dueDate, asOf time.Time) int {
	due := dueDate.UTC().Truncate(24 * time.Hour)
	ref := asOf.UTC().Truncate(24 * time.Hour)
	if !ref.After(due) {
		return 0
	}
	return int(ref.Sub(due).Hours() / 24)
}

// Penalty computes the late-payment penalty accrued for a note.
//
// The grace period is an activation threshold only: once days overdue exceeds
// it, periods are counted from the due date without subtracting the grace
// days. Partial periods are not charged (floor division).
func Penalty(daysOverdue, gracePeriodDays, periodDays int, penaltyPerPeriod decimal.Decimal) decimal.Decimal {
	if daysOverdue <= gracePeriodDays {
		return decimal.Zero
	}
	if periodDays <= 0 {
		periodDays = 1
	}
	elapsedPeriods := daysOverdue / periodDays
	return penaltyPerPeriod.Mul(decimal.NewFromInt(int64(elapsedPeriods)))
}
