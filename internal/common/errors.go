// Package common defines sentinel errors and small error types shared by the
// repositories, services and the HTTP layer. Callers should match them with
// errors.Is / errors.As.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (malformed token or bad signature).
	ErrInvalidToken = errors.New("invalid token")

	// Analysis errors.
	ErrNoHoldings = NewValidationError("no holdings found, add holdings before running analysis")
)

// ValidationError carries a message that is safe to show to the caller.
// It matches ErrorValidation under errors.Is.
type ValidationError struct {
	Message string
}

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// Validationf formats a *ValidationError.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
