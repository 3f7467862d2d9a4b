// Package auth turns bearer tokens into sessions and exposes the session
// endpoints.
package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fairgate/internal/auth/token"
	"fairgate/pkg/domain"
	request "fairgate/pkg/platform/middleware/request"
	"fairgate/pkg/platform/session"
)

// CookieName is the cookie browsers carry the token in.
const CookieName = "session"

// TokenValidator verifies a raw token.
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// RevocationChecker reports sessions ended early.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID domain.SessionID) (bool, error)
}

// Resolver implements the authorization middleware's SessionResolver.
type Resolver struct {
	tokens      TokenValidator
	revocations RevocationChecker
	logger      *slog.Logger
}

func NewResolver(tokens TokenValidator, revocations RevocationChecker, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{tokens: tokens, revocations: revocations, logger: logger}
}

// ResolveSession reads the token from the Authorization header, falling back
// to the session cookie. A missing, invalid, expired or revoked token is no
// session; only a failing revocation lookup is an error.
func (res *Resolver) ResolveSession(r *http.Request) (*session.Session, error) {
	raw := bearerToken(r)
	if raw == "" {
		return nil, nil
	}
	ctx := r.Context()

	claims, err := res.tokens.Validate(raw)
	if err != nil {
		res.logger.DebugContext(ctx, "rejected session token",
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
		return nil, nil
	}

	sess, ok := sessionFromClaims(claims)
	if !ok {
		res.logger.WarnContext(ctx, "session token carries malformed claims",
			"request_id", request.GetRequestID(ctx),
		)
		return nil, nil
	}

	if res.revocations != nil {
		revoked, err := res.revocations.IsRevoked(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, nil
		}
	}
	return sess, nil
}

func bearerToken(r *http.Request) string {
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

func sessionFromClaims(c *token.Claims) (*session.Session, bool) {
	userID, err := domain.ParseUserID(c.UserID)
	if err != nil {
		return nil, false
	}
	sessionID, err := domain.ParseSessionID(c.SessionID)
	if err != nil {
		return nil, false
	}
	role := domain.Role(c.Role)
	if !role.IsValid() {
		return nil, false
	}
	var expires time.Time
	if c.ExpiresAt != nil {
		expires = c.ExpiresAt.Time
	}
	return &session.Session{ID: sessionID, UserID: userID, Role: role, ExpiresAt: expires}, true
}
