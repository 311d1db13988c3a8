package domain

import (
	"errors"
	"fmt"
)

var (
	ErrVisitorIDRequired    = errors.New("visitor id is required")
	ErrExperimentRequired   = errors.New("experiment id or key is required")
	ErrExperimentNotFound   = errors.New("experiment not found")
	ErrExperimentNotRunning = errors.New("experiment is not running")
	ErrNoActiveVariants     = errors.New("no active variants")
	ErrVariantNotFound      = errors.New("variant not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrInvalidRevenue       = errors.New("revenue must be a finite, non-negative number")
)

// ValidationError is a client input problem. Nothing is written when one is
// returned.
type ValidationError struct {
	Err error
}

func NewValidationError(err error) *ValidationError {
	return &ValidationError{Err: err}
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ComputationError marks malformed numeric input. Callers fail safe to the
// first variant instead of propagating it.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation %s: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed write. It is logged, never surfaced on the
// assignment path.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
