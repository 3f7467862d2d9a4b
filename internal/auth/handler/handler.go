package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fairgate/pkg/domain"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/dispatch"
	"fairgate/pkg/platform/middleware/auth"
	"fairgate/pkg/requestcontext"
)

// Revoker ends a session before its token expires.
type Revoker interface {
	Revoke(ctx context.Context, sessionID domain.SessionID, ttl time.Duration) error
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Handler struct {
	revoker    Revoker
	dispatcher *dispatch.Dispatcher
	resolver   auth.SessionResolver
	logger     *slog.Logger
}

func New(revoker Revoker, d *dispatch.Dispatcher, resolver auth.SessionResolver, logger *slog.Logger) *Handler {
	return &Handler{revoker: revoker, dispatcher: d, resolver: resolver, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Handle("/api/session",
		h.dispatcher.Route([]string{http.MethodGet}, auth.RequireSession(h.resolver, h.HandleWhoAmI)))
	r.Handle("/api/session/logout",
		h.dispatcher.Route([]string{http.MethodPost}, auth.RequireSession(h.resolver, h.HandleLogout)))
}

func (h *Handler) HandleWhoAmI(r *http.Request) (*dispatch.Response, error) {
	sess := auth.SessionFromContext(r.Context())
	return dispatch.OK(SessionResponse{
		SessionID: sess.ID.String(),
		UserID:    sess.UserID.String(),
		Role:      string(sess.Role),
		ExpiresAt: sess.ExpiresAt,
	}), nil
}

// HandleLogout revokes the caller's session for the rest of its lifetime.
func (h *Handler) HandleLogout(r *http.Request) (*dispatch.Response, error) {
	ctx := r.Context()
	sess := auth.SessionFromContext(ctx)

	ttl := sess.ExpiresAt.Sub(requestcontext.Now(ctx))
	if ttl <= 0 {
		return dispatch.NoContent(), nil
	}
	if err := h.revoker.Revoke(ctx, sess.ID, ttl); err != nil {
		return nil, dErrors.Internal("revoke session", err)
	}
	h.logger.InfoContext(ctx, "session revoked",
		"session_id", sess.ID.String(),
		"user_id", sess.UserID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return dispatch.NoContent(), nil
}
