package store

import (
	"bytes"
	"context"
	"sync"

	"fairgate/internal/document"
	"fairgate/pkg/domain"
	"fairgate/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[domain.DocumentID]document.Document
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{docs: make(map[domain.DocumentID]document.Document)}
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.DocumentID) (*document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	d.Data = bytes.Clone(d.Data)
	return &d, nil
}

func (s *InMemoryStore) Save(_ context.Context, d *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *d
	stored.Data = bytes.Clone(d.Data)
	s.docs[d.ID] = stored
	return nil
}
