// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Common application-specific errors.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrEmployerNotFound    = errors.New("employer not found")
	ErrVacancyNotFound     = errors.New("vacancy not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrPersistenceConflict = errors.New("concurrent write detected")
	ErrAlreadyProcessed    = errors.New("request already processed")
)

// ValidationError reports a recoverable input problem. It is always raised
// before any ledger mutation is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError for a specific field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientCreditsError is returned when an operation requires full balance
// coverage (the boost path) and the wallet cannot provide it. It carries the
// shortage so callers can report exactly how many credits are missing.
type InsufficientCreditsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: need %d, have %d (shortage %d)",
		e.Required, e.Available, e.Shortage())
}

// Shortage returns the number of missing credits.
func (e *InsufficientCreditsError) Shortage() int64 {
	return e.Required - e.Available
}

// InvalidTransitionError reports a vacancy status transition that the state
// machine does not allow.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// IsError checks if err matches the target error using errors.Is.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
