// Package entity defines the core business entities for the dealership back office.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client represents a dealership customer. RatingLabel and AccumulatedArrears
// are derived values maintained by the reconciliation engine; they are always
// recomputable from the client's notes and payments.
type Client struct {
	ID                 uuid.UUID
	Name               string
	Document           string // national ID / tax document
	RatingLabel        string
	AccumulatedArrears decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewClient creates a new Client entity with the UNRATED sentinel label.
func NewClient(name, document string) *Client {
	now := time.Now().UTC()

	return &Client{
		ID:                 uuid.New(),
		Name:               name,
		Document:           document,
		RatingLabel:        RatingLabelUnrated,
		AccumulatedArrears: decimal.Zero,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
