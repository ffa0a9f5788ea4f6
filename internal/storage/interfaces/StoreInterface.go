package interfaces

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// StoreInterface is the key-value contract the profile blob is kept behind.
// Get returns ErrNotFound for a missing key.
type StoreInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
