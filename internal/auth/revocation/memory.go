package revocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fairgate/pkg/domain"
	"fairgate/pkg/platform/sentinel"
)

// InMemoryStore is a single-process revocation list.
type InMemoryStore struct {
	mu      sync.Mutex
	expires map[domain.SessionID]time.Time
	clock   func() time.Time
}

type Option func(*InMemoryStore)

func WithClock(clock func() time.Time) Option {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemory(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{expires: make(map[domain.SessionID]time.Time), clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Revoke(_ context.Context, sessionID domain.SessionID, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[sessionID] = s.clock().Add(ttl)
	return nil
}

func (s *InMemoryStore) IsRevoked(_ context.Context, sessionID domain.SessionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.expires[sessionID]
	if !ok {
		return false, nil
	}
	if !s.clock().Before(until) {
		delete(s.expires, sessionID)
		return false, nil
	}
	return true, nil
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}
