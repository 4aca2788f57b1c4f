// Package errors defines the domain error type shared by all services.
// Precondition failures carry a stable code plus enough detail for the
// caller to correct its input; infrastructure faults are wrapped as
// STORAGE_FAILURE and are the only retryable kind.
package errors

import "fmt"

// DomainError is a typed business-rule violation.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches by code so sentinel instances work with errors.Is even
// after WithDetails copies.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithDetails returns a copy of the error carrying request context
// (requested vs available amounts and the like). The sentinel itself is
// never mutated.
func (e *DomainError) WithDetails(details map[string]any) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// Validation builds a VALIDATION_ERROR for malformed input.
func Validation(format string, args ...any) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error codes surfaced to HTTP clients.
const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeInvalidGiftSelection = "INVALID_GIFT_SELECTION"
	CodeAmountMismatch       = "AMOUNT_MISMATCH"
	CodeInsufficientBalance  = "INSUFFICIENT_BALANCE"
	CodeWalletNotFound       = "WALLET_NOT_FOUND"
	CodeStorageFailure       = "STORAGE_FAILURE"
)
