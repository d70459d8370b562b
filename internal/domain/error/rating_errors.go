// Package error defines domain-specific errors for the dealership back office.
package error

import "errors"

// Rating policy domain errors.
var (
	// ErrNoRatingBands is returned when the rating policy has no bands configured.
	ErrNoRatingBands = errors.New("no rating bands configured")

	// ErrOverlappingRatingBands is returned when two bands cover the same
	// days-overdue value. Misconfigured policy is an invariant violation:
	// detected and logged, never auto-corrected.
	ErrOverlappingRatingBands = errors.New("rating bands overlap")

	// ErrUnboundedBandNotLast is returned when an open-ended band is followed
	// by another band.
	ErrUnboundedBandNotLast = errors.New("unbounded rating band must be last")

	// ErrInvalidRatingBand is returned when a band range is malformed.
	ErrInvalidRatingBand = errors.New("invalid rating band range")
)

// RatingErrorCode defines error codes for rating policy errors.
// Format: RATE-XXYYYY where XX is category and YYYY is specific error.
type RatingErrorCode string

const (
	// Policy configuration errors (01XXXX)
	ErrCodeNoRatingBands    RatingErrorCode = "RATE-010001"
	ErrCodeOverlappingBands RatingErrorCode = "RATE-010002"
	ErrCodeUnboundedNotLast RatingErrorCode = "RATE-010003"
	ErrCodeInvalidBand      RatingErrorCode = "RATE-010004"
)

// RatingError represents a rating policy error with code and message.
type RatingError struct {
	Code    RatingErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RatingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RatingError) Unwrap() error {
	return e.Err
}

// NewRatingError creates a new RatingError with the given code and message.
func NewRatingError(code RatingErrorCode, message string, err error) *RatingError {
	return &RatingError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
