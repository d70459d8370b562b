// Package error defines domain-specific errors for the dealership back office.
package error

import "errors"

// Payment domain errors.
var (
	// ErrInvalidPaymentAmount is returned when the payment amount is zero or negative.
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")

	// ErrInvalidPaymentMethod is returned when the payment method is invalid.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrMissingReceiptNumber is returned when the receipt number is empty.
	ErrMissingReceiptNumber = errors.New("receipt number is required")

	// ErrDuplicateReceipt is returned when the receipt number is already on file.
	ErrDuplicateReceipt = errors.New("receipt number already registered")
)

// PaymentErrorCode defines error codes for payment errors.
// Format: PAY-XXYYYY where XX is category and YYYY is specific error.
type PaymentErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidPaymentAmount PaymentErrorCode = "PAY-010001"
	ErrCodeInvalidPaymentMethod PaymentErrorCode = "PAY-010002"
	ErrCodeMissingReceipt       PaymentErrorCode = "PAY-010003"
	ErrCodeDuplicateReceipt     PaymentErrorCode = "PAY-010004"
	ErrCodePaymentNoteNotFound  PaymentErrorCode = "PAY-010005"
)

// PaymentError represents a payment error with code and message.
type PaymentError struct {
	Code    PaymentErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PaymentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PaymentError) Unwrap() error {
	return e.Err
}

// NewPaymentError creates a new PaymentError with the given code and message.
func NewPaymentError(code PaymentErrorCode, message string, err error) *PaymentError {
	return &PaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
