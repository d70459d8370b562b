// Package error defines domain-specific errors for the dealership back office.
package error

import "errors"

// Note and ownership domain errors.
var (
	// ErrNoteNotFound is returned when a note is not found in the ledger.
	ErrNoteNotFound = errors.New("note not found")

	// ErrSaleNotFound is returned when a sale is not found.
	ErrSaleNotFound = errors.New("sale not found")

	// ErrClientNotFound is returned when a client is not found.
	ErrClientNotFound = errors.New("client not found")

	// ErrInvalidObligationKind is returned when the obligation kind is invalid.
	ErrInvalidObligationKind = errors.New("invalid obligation kind")

	// ErrInvariantViolation is returned when a stored note contradicts the
	// ledger invariants (e.g. PAID with a non-zero balance). Detected and
	// reported, never auto-corrected outside an explicit repair run.
	ErrInvariantViolation = errors.New("ledger invariant violation")

	// ErrUnresolvedOwnership is returned when a note cannot be traced to its
	// sale or client. It degrades the rating step only; payment recording
	// must never depend on referential completeness of reporting data.
	ErrUnresolvedOwnership = errors.New("note ownership could not be resolved")
)

// NoteErrorCode defines error codes for note ledger errors.
// Format: NOTE-XXYYYY where XX is category and YYYY is specific error.
type NoteErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeNoteNotFound   NoteErrorCode = "NOTE-010001"
	ErrCodeInvalidKind    NoteErrorCode = "NOTE-010002"
	ErrCodeSaleNotFound   NoteErrorCode = "NOTE-010003"
	ErrCodeClientNotFound NoteErrorCode = "NOTE-010004"
	// Consistency errors (02XXXX)
	ErrCodeInvariantViolation  NoteErrorCode = "NOTE-020001"
	ErrCodeUnresolvedOwnership NoteErrorCode = "NOTE-020002"
)

// NoteError represents a note ledger error with code and message.
type NoteError struct {
	Code    NoteErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *NoteError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *NoteError) Unwrap() error {
	return e.Err
}

// NewNoteError creates a new NoteError with the given code and message.
func NewNoteError(code NoteErrorCode, message string, err error) *NoteError {
	return &NoteError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
