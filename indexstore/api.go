package indexstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no blob is stored under the requested name.
var ErrNotFound = errors.New("indexstore: index not found")

// Store saves and loads serialized index blobs by name.
type Store interface {
	// Save stores data under name, replacing any previous blob.
	Save(ctx context.Context, name string, data []byte) error

	// Load returns the blob stored under name or ErrNotFound.
	Load(ctx context.Context, name string) ([]byte, error)
}
