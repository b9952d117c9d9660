// Package kvstore holds the durable key/blob store the repositories persist
// into. Each key maps to one opaque value, usually a JSON document.
package kvstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	// Get returns ErrNotFound when key has never been written or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
}
