package repository

import "context"

// KeyValueStore is the persistence the cart and checkout handoff are built on.
// Get reports false for a missing key; an error means the backend failed.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// Popper is implemented by stores that can read and delete a key atomically.
type Popper interface {
	Pop(ctx context.Context, key string) (string, bool, error)
}
