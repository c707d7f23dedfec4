package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no stored value, and by
// implementations whenever absence needs to be distinguished from failure.
var ErrNotFound = errors.New("storage: key not found")

// Store is durable key-value storage for client-side state: carts, wishlists
// and the auth token, one entry per key. Values are opaque byte slices;
// callers own serialization.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
