package repositories

import (
	"context"
)

// StateEntry is one key of the persisted application state. Delete removes
// the key instead of writing Value.
type StateEntry struct {
	Key    string
	Value  string
	Delete bool
}

// StateStore defines the opaque key-value persistence of the application state
type StateStore interface {
	// Get returns the stored value or domainerrors.ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)
	// Put applies all entries atomically, in order.
	Put(ctx context.Context, entries ...StateEntry) error
}
