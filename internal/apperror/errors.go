// Package apperror defines the typed errors shared by the store, the import
// pipeline and the calling layer.
package apperror

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("not found")

// ErrDuplicatePayment is returned when a paid payment already exists for
// the same fee, household and period.
var ErrDuplicatePayment = errors.New("duplicate paid payment for period")

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Entity, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true for any NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ImportError represents a row that could not be read from an import file
type ImportError struct {
	File  string
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s:%d: failed to parse %s='%s': %v",
		e.File, e.Row, e.Field, e.Value, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// LoadError wraps a read failure behind a generic user-facing message.
// The wrapped error is kept for logs; callers show UserMessage.
type LoadError struct {
	What string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load %s: %v", e.What, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UserMessage returns the message safe to show to an end user.
func (e *LoadError) UserMessage() string {
	return "could not load " + e.What
}

// ValidationError represents a rejected input value
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
