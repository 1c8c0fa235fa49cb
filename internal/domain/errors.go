package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing client, end time required for a round trip).
// It is always detected before any store call is attempted.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidTransition is returned when a trip status change violates the
// lifecycle state machine or its driver/vehicle guard, and when a completed
// trip is edited or reassigned.
// Handlers should map this to HTTP 409 Conflict.
var ErrInvalidTransition = errors.New("invalid transition")

// StoreError wraps any failure surfaced by the persistent store.
// Op names the operation in plain words ("assign driver") so the message
// presented to an operator says exactly what failed.
type StoreError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return "failed to " + e.Op
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError classifies err as a StoreError for op.
// Deadline expiry at the store boundary is marked retryable.
// ErrNotFound passes through untouched so callers can still map it to 404.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &StoreError{
		Op:        op,
		Err:       err,
		Retryable: errors.Is(err, context.DeadlineExceeded),
	}
}

// IsStoreError reports whether err carries a StoreError and returns it.
func IsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
