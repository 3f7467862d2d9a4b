// Package auth gates dispatch handlers on the caller's session and role.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"fairgate/pkg/domain"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/dispatch"
	request "fairgate/pkg/platform/middleware/request"
	"fairgate/pkg/platform/session"
	"fairgate/pkg/requestcontext"
)

// SessionResolver finds the session a request carries. It returns (nil, nil)
// when the request has no usable session; an error means the lookup itself
// failed.
type SessionResolver interface {
	ResolveSession(r *http.Request) (*session.Session, error)
}

// Middleware wraps a dispatch handler.
type Middleware func(dispatch.HandlerFunc) dispatch.HandlerFunc

// RequireRole runs next only for a session whose role satisfies role.
// No session fails with Unauthenticated, an insufficient role with
// Unauthorized. next's result is returned untouched.
func RequireRole(resolver SessionResolver, role domain.Role, next dispatch.HandlerFunc) dispatch.HandlerFunc {
	return func(r *http.Request) (*dispatch.Response, error) {
		sess, err := resolver.ResolveSession(r)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, dErrors.Unauthenticated()
		}
		if !sess.Satisfies(role) {
			ctx := r.Context()
			slog.WarnContext(ctx, "role not satisfied",
				"required", role,
				"role", sess.Role,
				"user_id", sess.UserID.String(),
				"request_id", request.GetRequestID(ctx),
			)
			return nil, dErrors.Unauthorized()
		}
		return next(r.WithContext(requestcontext.WithSession(r.Context(), sess)))
	}
}

// RequireSession accepts any authenticated caller.
func RequireSession(resolver SessionResolver, next dispatch.HandlerFunc) dispatch.HandlerFunc {
	return RequireRole(resolver, domain.RoleParticipant, next)
}

func RequireAdmin(resolver SessionResolver, next dispatch.HandlerFunc) dispatch.HandlerFunc {
	return RequireRole(resolver, domain.RoleAdmin, next)
}

// Role adapts RequireRole for use with Chain.
func Role(resolver SessionResolver, role domain.Role) Middleware {
	return func(next dispatch.HandlerFunc) dispatch.HandlerFunc {
		return RequireRole(resolver, role, next)
	}
}

// Chain wraps h so that mws[0] runs first. Each middleware may short-circuit.
func Chain(h dispatch.HandlerFunc, mws ...Middleware) dispatch.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// SessionFromContext returns the session RequireRole attached, or nil.
func SessionFromContext(ctx context.Context) *session.Session {
	return requestcontext.Session(ctx)
}
