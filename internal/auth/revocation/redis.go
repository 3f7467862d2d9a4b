// Package revocation records sessions that were ended before their tokens
// expired.
package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fairgate/pkg/domain"
)

const revokedSessionKeyPrefix = "fairgate:revoked:session:"

// RedisStore shares revocations across server instances. Keys expire with
// the token they revoke.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Revoke marks sessionID revoked for ttl.
func (s *RedisStore) Revoke(ctx context.Context, sessionID domain.SessionID, ttl time.Duration) error {
	if err := validateTTL(ttl); err != nil {
		return err
	}
	if err := s.client.Set(ctx, revokedSessionKeyPrefix+sessionID.String(), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, sessionID domain.SessionID) (bool, error) {
	err := s.client.Get(ctx, revokedSessionKeyPrefix+sessionID.String()).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return true, nil
}
