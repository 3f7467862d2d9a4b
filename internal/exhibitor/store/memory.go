package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"fairgate/internal/exhibitor"
	"fairgate/pkg/domain"
	"fairgate/pkg/platform/sentinel"
)

// InMemoryStore keeps exhibitors sorted by (created_at, id) like the
// Postgres store.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows []exhibitor.Exhibitor
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), nil
}

func (s *InMemoryStore) List(_ context.Context, skip, take int) ([]exhibitor.Exhibitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if skip >= len(s.rows) {
		return nil, nil
	}
	end := min(skip+take, len(s.rows))
	return slices.Clone(s.rows[skip:end]), nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ExhibitorID) (*exhibitor.Exhibitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.rows {
		if row.ID == id {
			out := row
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) Create(_ context.Context, e *exhibitor.Exhibitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if strings.EqualFold(row.Name, e.Name) {
			return fmt.Errorf("exhibitor %q: %w", e.Name, sentinel.ErrConflict)
		}
	}
	s.rows = append(s.rows, *e)
	slices.SortFunc(s.rows, func(a, b exhibitor.Exhibitor) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return nil
}
