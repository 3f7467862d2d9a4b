// Package session defines the authenticated session that the authorization
// middleware hands to handlers.
package session

import (
	"time"

	"fairgate/pkg/domain"
)

// Session is a resolved, unexpired caller identity.
type Session struct {
	ID        domain.SessionID
	UserID    domain.UserID
	Role      domain.Role
	ExpiresAt time.Time
}

// Satisfies reports whether the session's role meets required.
func (s *Session) Satisfies(required domain.Role) bool {
	if s == nil {
		return false
	}
	return s.Role.Satisfies(required)
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == domain.RoleAdmin
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
