package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairgate/pkg/domain"
	"fairgate/pkg/platform/sentinel"
)

func TestInMemoryRevocationExpires(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	store := NewInMemory(WithClock(func() time.Time { return now }))
	ctx := context.Background()
	sid := domain.SessionID(uuid.New())

	revoked, err := store.IsRevoked(ctx, sid)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, sid, time.Minute))
	revoked, err = store.IsRevoked(ctx, sid)
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(time.Minute)
	revoked, err = store.IsRevoked(ctx, sid)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeRejectsNonPositiveTTL(t *testing.T) {
	err := NewInMemory().Revoke(context.Background(), domain.SessionID(uuid.New()), 0)
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)
}
