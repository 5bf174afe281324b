package services

import (
	"context"
	"io"
)

// ObjectStore persists uploaded bytes and hands back a locator clients can use
// to retrieve them. Implementations live in internal/storage.
type ObjectStore interface {
	// Put writes the object under key and returns its locator
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)

	// Delete removes the object referenced by locator; missing objects are not an error
	Delete(ctx context.Context, locator string) error
}
