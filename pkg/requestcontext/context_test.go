package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"fairgate/pkg/domain"
	"fairgate/pkg/platform/session"
)

func TestSessionAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, Session(ctx))
	assert.True(t, UserID(ctx).IsNil())
	assert.False(t, IsAdmin(ctx))

	uid := domain.UserID(uuid.New())
	ctx = WithSession(ctx, &session.Session{UserID: uid, Role: domain.RoleAdmin})
	assert.Equal(t, uid, UserID(ctx))
	assert.True(t, IsAdmin(ctx))
}

func TestNowFallsBackToWallClock(t *testing.T) {
	before := time.Now()
	assert.False(t, Now(context.Background()).Before(before))

	fixed := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, fixed, Now(WithTime(context.Background(), fixed)))
}

func TestClientMetadata(t *testing.T) {
	ctx := WithClientMetadata(context.Background(), "10.0.0.1", "curl/8.0", "curl/unknown")
	assert.Equal(t, "10.0.0.1", ClientIP(ctx))
	assert.Equal(t, "curl/8.0", UserAgent(ctx))
	assert.Equal(t, "curl/unknown", Device(ctx))
	assert.Equal(t, "", RequestID(ctx))
}
