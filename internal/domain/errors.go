package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation marks a request rejected before any mutation,
	// e.g. moving an item to the agenda it is already on.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrValidation marks input that failed field validation.
	ErrValidation = errors.New("validation failed")
)

// PersistenceError reports a failed batch write. The batch is all-or-nothing,
// so nothing from Op was committed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
