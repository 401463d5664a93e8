// Package storage defines the object-storage boundary for property images.
// The vendor implementation lives behind this interface; only validated
// metadata reaches it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrObjectNotFound is returned when the requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the blob-store capability used by the image flows.
type ObjectStore interface {
	// Put stores an object and returns its key.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Delete removes an object. Deleting a missing object is an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for an object key.
	URL(key string) string
}

// MemoryStore is an in-process ObjectStore used in development and tests.
type MemoryStore struct {
	baseURL string
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: baseURL,
		objects: make(map[string][]byte),
	}
}

// Put stores an object.
func (s *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte{}, data...)
	return nil
}

// Delete removes an object.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

// URL returns the public URL for an object key.
func (s *MemoryStore) URL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}
