// Package rating contains client creditworthiness rating use cases.
package rating

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
)

func intPtr(v int) *int { return &v }

func band(from int, to *int, label string) *entity.RatingBand {
	return &entity.RatingBand{ID: uuid.New(), DaysFrom: from, DaysTo: to, Label: label}
}

func standardBands() []*entity.RatingBand {
	return []*entity.RatingBand{
		band(0, intPtr(10), "A"),
		band(11, intPtr(30), "B"),
		band(31, intPtr(60), "C"),
	}
}

func TestValidateBands(t *testing.T) {
	tests := []struct {
		name        string
		bands       []*entity.RatingBand
		expectedErr error
	}{
		{
			name:  "well formed policy passes",
			bands: standardBands(),
		},
		{
			name: "unbounded last band passes",
			bands: []*entity.RatingBand{
				band(0, intPtr(30), "A"),
				band(31, nil, "D"),
			},
		},
		{
			name:        "empty policy rejected",
			bands:       nil,
			expectedErr: domainerror.ErrNoRatingBands,
		},
		{
			name: "overlapping bands rejected",
			bands: []*entity.RatingBand{
				band(0, intPtr(15), "A"),
				band(10, intPtr(30), "B"),
			},
			expectedErr: domainerror.ErrOverlappingRatingBands,
		},
		{
			name: "unbounded band not last rejected",
			bands: []*entity.RatingBand{
				band(0, nil, "A"),
				band(31, intPtr(60), "C"),
			},
			expectedErr: domainerror.ErrUnboundedBandNotLast,
		},
		{
			name: "inverted range rejected",
			bands: []*entity.RatingBand{
				band(10, intPtr(5), "A"),
			},
			expectedErr: domainerror.ErrInvalidRatingBand,
		},
		{
			name: "negative lower bound rejected",
			bands: []*entity.RatingBand{
				band(-1, intPtr(5), "A"),
			},
			expectedErr: domainerror.ErrInvalidRatingBand,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBands(tt.bands)
			if tt.expectedErr == nil {
				if err != nil {
					t.Errorf("expected valid policy, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestResolveLabel(t *testing.T) {
	bands := standardBands()

	tests := []struct {
		name        string
		daysOverdue int
		hasNotes    bool
		expected    string
	}{
		{name: "no notes at all is unrated", daysOverdue: 0, hasNotes: false, expected: entity.RatingLabelUnrated},
		{name: "notes but nothing overdue is good standing", daysOverdue: 0, hasNotes: true, expected: entity.RatingLabelGoodStanding},
		{name: "first band lower edge", daysOverdue: 1, hasNotes: true, expected: "A"},
		{name: "first band upper edge", daysOverdue: 10, hasNotes: true, expected: "A"},
		{name: "middle band", daysOverdue: 11, hasNotes: true, expected: "B"},
		{name: "forty five days overdue rates C", daysOverdue: 45, hasNotes: true, expected: "C"},
		{name: "beyond every band falls to worst", daysOverdue: 120, hasNotes: true, expected: "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveLabel(bands, tt.daysOverdue, tt.hasNotes)
			if got != tt.expected {
				t.Errorf("resolveLabel(%d, %v) = %q, expected %q", tt.daysOverdue, tt.hasNotes, got, tt.expected)
			}
		})
	}
}
