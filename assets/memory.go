package assets

import (
	"context"
	"io"
	"sync"

	"github.com/wrapsnp/go-directory/pkg/types"
)

// MemoryStore is an in-process types.AssetStore used by tests and local
// development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

var _ types.AssetStore = (*MemoryStore)(nil)

// Put implements types.AssetStore.
func (s *MemoryStore) Put(_ context.Context, path string, content io.Reader, contentType string) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.objects[path] = memoryObject{data: data, contentType: contentType}
	s.mu.Unlock()
	return nil
}

// PublicURL implements types.AssetStore.
func (s *MemoryStore) PublicURL(_ context.Context, path string) (string, error) {
	return "mem://" + path, nil
}

// Remove implements types.AssetStore.
func (s *MemoryStore) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		return ErrNotFound
	}
	delete(s.objects, path)
	return nil
}

// Has reports whether an object exists at the path.
func (s *MemoryStore) Has(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[path]
	return ok
}

// Len returns the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
