package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a game or record does not exist
var ErrNotFound = errors.New("not found")

// ErrNoStadium is returned when a record is added for a game without a known stadium
var ErrNoStadium = errors.New("game has no stadium")

// PersistenceError wraps a failure reported by the database
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// AsPersistenceError attempts to unwrap an error into a PersistenceError.
func AsPersistenceError(err error) (*PersistenceError, bool) {
	var pErr *PersistenceError
	if errors.As(err, &pErr) {
		return pErr, true
	}
	return nil, false
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
