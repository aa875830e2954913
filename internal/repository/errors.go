package repository

import (
	"errors"
	"fmt"

	"barbearia-backend/internal/docstore"
)

// ErrNotFound is returned when an update or adjust targets an id the store does not have.
var ErrNotFound = docstore.ErrNotFound

// ErrInsufficientStock is returned when a stock decrement would go below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// StoreReadError reports a failed fetch of a collection.
type StoreReadError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreReadError) Error() string {
	return fmt.Sprintf("read %s (%s): %v", e.Collection, e.Op, e.Err)
}

func (e *StoreReadError) Unwrap() error { return e.Err }

// StoreWriteError reports a rejected create, update or delete. Callers must not
// assume any part of the write was applied.
type StoreWriteError struct {
	Collection string
	Op         string
	ID         string
	Err        error
}

func (e *StoreWriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("write %s (%s): %v", e.Collection, e.Op, e.Err)
	}
	return fmt.Sprintf("write %s/%s (%s): %v", e.Collection, e.ID, e.Op, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// IsStoreError reports whether err came from the document store.
func IsStoreError(err error) bool {
	var re *StoreReadError
	var we *StoreWriteError
	return errors.As(err, &re) || errors.As(err, &we)
}
