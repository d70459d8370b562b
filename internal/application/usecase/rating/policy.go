// Package rating contains client creditworthiness rating use cases.
package rating

import (
	"fmt"
	"sort"

	"github.com/dealership/backoffice/internal/domain/entity"
	domainerror "github.com/dealership/backoffice/internal/domain/error"
)

// ValidateBands checks a rating policy snapshot for configuration faults.
// Non-overlap is a convention, not a data-layer constraint, so it must be
// validated here before the policy is applied.
func ValidateBands(bands []*entity.RatingBand) error {
	if len(bands) == 0 {
		return domainerror.NewRatingError(
			domainerror.ErrCodeNoRatingBands,
			"rating policy has no bands",
			domainerror.ErrNoRatingBands,
		)
	}

	ordered := make([]*entity.RatingBand, len(bands))
	copy(ordered, bands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DaysFrom < ordered[j].DaysFrom
	})

	for i, band := range ordered {
		if band.DaysFrom < 0 || (band.DaysTo != nil && *band.DaysTo < band.DaysFrom) {
			return domainerror.NewRatingError(
				domainerror.ErrCodeInvalidBand,
				fmt.Sprintf("band %q has a malformed range [%d, %v]", band.Label, band.DaysFrom, band.DaysTo),
				domainerror.ErrInvalidRatingBand,
			)
		}

		if i == len(ordered)-1 {
			continue
		}
		next := ordered[i+1]

		if band.DaysTo == nil {
			return domainerror.NewRatingError(
				domainerror.ErrCodeUnboundedNotLast,
				fmt.Sprintf("unbounded band %q is followed by band %q", band.Label, next.Label),
				domainerror.ErrUnboundedBandNotLast,
			)
		}
		if next.DaysFrom <= *band.DaysTo {
			return domainerror.NewRatingError(
				domainerror.ErrCodeOverlappingBands,
				fmt.Sprintf("band %q overlaps band %q at %d days", band.Label, next.Label, next.DaysFrom),
				domainerror.ErrOverlappingRatingBands,
			)
		}
	}

	return nil
}

// resolveLabel applies the policy: first band containing the days-overdue
// value wins, scanning in ascending DaysFrom order. Clients with no notes at
// all are UNRATED; clients with notes and zero overdue days are GOOD_STANDING.
// An overdue value beyond every bounded band falls to the worst (last) band.
func resolveLabel(bands []*entity.RatingBand, daysOverdue int, hasNotes bool) string {
	if !hasNotes {
		return entity.RatingLabelUnrated
	}
	if daysOverdue == 0 {
		return entity.RatingLabelGoodStanding
	}

	for _, band := range bands {
		if band.Contains(daysOverdue) {
			return band.Label
		}
	}

	if len(bands) > 0 {
		return bands[len(bands)-1].Label
	}
	return entity.RatingLabelGoodStanding
}
