package testutil

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"fairgate/pkg/domain"
	"fairgate/pkg/platform/session"
)

// NewSession returns an unexpired session with fresh IDs.
func NewSession(role domain.Role) *session.Session {
	return &session.Session{
		ID:        domain.SessionID(uuid.New()),
		UserID:    domain.UserID(uuid.New()),
		Role:      role,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// StaticResolver resolves every request to the same session, or to none
// when Session is nil. Err, when set, is returned instead.
type StaticResolver struct {
	Session *session.Session
	Err     error
}

func (s StaticResolver) ResolveSession(*http.Request) (*session.Session, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Session, nil
}
