package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists,
// or that an idempotency key was already used.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that a debit would take an account balance below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrTransient indicates a retryable failure, e.g. the persistence layer was
// unreachable or rejected the atomic write. Nothing was committed.
var ErrTransient = errors.New("transient failure")

// ErrPublishFailure indicates the notification channel was unreachable. It is a
// non-fatal warning: the ledger mutation it accompanies is already committed and
// must never be undone because of it.
var ErrPublishFailure = errors.New("event publish failure")

// ValidationFailure aggregates per-entry validation errors for a rejected batch.
// The whole batch is refused; Failures names the offending entries by index.
type ValidationFailure struct {
	Failures map[int]string
}

func (v *ValidationFailure) Error() string {
	return fmt.Sprintf("%d invalid entries in batch", len(v.Failures))
}

// Unwrap ties ValidationFailure into the ErrValidation taxonomy so callers can
// use errors.Is(err, ErrValidation).
func (v *ValidationFailure) Unwrap() error {
	return ErrValidation
}
