package database

import (
	"errors"
	"fmt"
)

// ErrItemNotFound is returned when the requested item does not exist.
var ErrItemNotFound = errors.New("item not found")

// CRUDError signals a failed item store operation. The transaction has
// already been rolled back when the error surfaces.
type CRUDError struct {
	Op  string
	Err error
}

func (e *CRUDError) Error() string {
	return fmt.Sprintf("item crud %s: %v", e.Op, e.Err)
}

func (e *CRUDError) Unwrap() error { return e.Err }
