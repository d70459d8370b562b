// Package entity defines the core business entities for the dealership back office.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Sentinel rating labels. Bands supply every other label.
const (
	// RatingLabelUnrated applies to clients with no notes at all ("new client").
	RatingLabelUnrated = "UNRATED"
	// RatingLabelGoodStanding applies to clients with notes and zero overdue days.
	RatingLabelGoodStanding = "GOOD_STANDING"
)

// RatingBand maps a days-overdue range to a creditworthiness label. DaysTo nil
// means the band is unbounded above. Bands are admin-configured and read-only
// to this core; non-overlap is a convention the core must validate, not a
// constraint the data layer enforces.
type RatingBand struct {
	ID       uuid.UUID
	DaysFrom int
	DaysTo   *int
	Label    string
}

// Contains reports whether the band covers the given days-overdue value.
func (b *RatingBand) Contains(daysOverdue int) bool {
	if daysOverdue < b.DaysFrom {
		return false
	}
	return b.DaysTo == nil || daysOverdue <= *b.DaysTo
}

// RatingHistoryEntry is an append-only record of a client rating transition.
type RatingHistoryEntry struct {
	ID            uuid.UUID
	ClientID      uuid.UUID
	PreviousLabel string
	NewLabel      string
	PaymentID     *uuid.UUID // payment that triggered the transition, when known
	Reason        string
	CreatedAt     time.Time
}

// NewRatingHistoryEntry creates a new RatingHistoryEntry entity.
func NewRatingHistoryEntry(
	clientID uuid.UUID,
	previousLabel, newLabel string,
	paymentID *uuid.UUID,
	reason string,
) *RatingHistoryEntry {
	return &RatingHistoryEntry{
		ID:            uuid.New(),
		ClientID:      clientID,
		PreviousLabel: previousLabel,
		NewLabel:      newLabel,
		PaymentID:     paymentID,
		Reason:        reason,
		CreatedAt:     time.Now().UTC(),
	}
}
