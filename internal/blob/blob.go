// Package blob defines the object-storage contract for map assets and
// rendered map artifacts.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested object does not exist in the bucket.
var ErrNotFound = errors.New("blob not found")

// Store is the object-storage boundary. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put stores bytes under bucket/key with the given content type.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	// Get returns the bytes stored under bucket/key, or ErrNotFound.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// EnsureBucket creates the bucket when absent and reports whether the
	// bucket holds no objects.
	EnsureBucket(ctx context.Context, bucket string) (isEmpty bool, err error)
}
