package store

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned for mutations when no backend is active
// (no session and no demo mode). Lists never return it: the disabled
// store simply lists nothing.
var ErrNotConfigured = errors.New("store: no backend configured")

// PersistenceError wraps a rejection from the remote backend. The Message
// is the backend's own human-readable text and is safe to show to the
// user; the record involved was not created or deleted.
type PersistenceError struct {
	Op      string // e.g. "create customer"
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %s", e.Op, e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
