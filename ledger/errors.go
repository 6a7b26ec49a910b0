package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation targets a trade id
	// that does not exist.
	ErrNotFound = errors.New("trade not found")

	// ErrAlreadyClosed is returned when RecordExit targets a trade
	// that has already been closed. The original system silently
	// no-opped here; we fail loudly instead.
	ErrAlreadyClosed = errors.New("trade already closed")
)

// ValidationError reports caller-supplied data that violates a
// precondition, such as a non-positive price or quantity.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a failure of the underlying SQLite store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
