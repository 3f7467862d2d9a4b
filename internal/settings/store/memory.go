package store

import (
	"context"
	"sync"
	"sync/atomic"
)

// InMemoryStore is a Repository for tests and single-process runs. It counts
// every storage access.
type InMemoryStore struct {
	mu       sync.RWMutex
	values   map[string]*string
	accesses atomic.Int64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{values: make(map[string]*string)}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (*string, error) {
	s.accesses.Add(1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok || v == nil {
		return nil, nil
	}
	out := *v
	return &out, nil
}

func (s *InMemoryStore) Set(_ context.Context, key string, value *string) error {
	s.accesses.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == nil {
		s.values[key] = nil
		return nil
	}
	v := *value
	s.values[key] = &v
	return nil
}

// Accesses reports how many Get and Set calls reached the store.
func (s *InMemoryStore) Accesses() int64 {
	return s.accesses.Load()
}
