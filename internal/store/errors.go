package store

import (
	"errors"
	"fmt"
)

// ErrReadOnly rejects writes on a store opened in read-only mode.
var ErrReadOnly = errors.New("store is read-only")

// StoreError wraps a database failure with the operation that produced it.
// Validation errors are never wrapped in a StoreError; they keep their
// contract types so callers can match them with errors.As.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func wrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
