// Package memory implements the blob store contract in process memory. It
// backs tests and local development runs that have no object store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/turfwars/internal/blob"
)

// Store is an in-memory blob store safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// New returns an empty in-memory blob store.
func New() *Store {
	return &Store{buckets: make(map[string]map[string][]byte)}
}

// Put stores bytes under bucket/key.
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		objects = make(map[string][]byte)
		s.buckets[bucket] = objects
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	objects[key] = stored
	return nil
}

// Get returns the bytes stored under bucket/key.
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, blob.ErrNotFound)
	}
	data, ok := objects[key]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, blob.ErrNotFound)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// EnsureBucket creates the bucket when absent and reports whether it is
// empty.
func (s *Store) EnsureBucket(ctx context.Context, bucket string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	objects, ok := s.buckets[bucket]
	if !ok {
		s.buckets[bucket] = make(map[string][]byte)
		return true, nil
	}
	return len(objects) == 0, nil
}
