package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairgate/internal/settings/service"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/dispatch"
	"fairgate/pkg/platform/httputil"
	"fairgate/pkg/platform/middleware/auth"
	"fairgate/pkg/platform/pagination"
	"fairgate/pkg/requestcontext"
)

// Service is the admin settings surface the handler needs.
type Service interface {
	List(ctx context.Context, p pagination.Params) (pagination.Data[service.View], error)
	Update(ctx context.Context, key string, raw *string) (service.View, error)
}

// UpdateRequest is the PUT body. A null value clears the stored setting.
type UpdateRequest struct {
	Value *string `json:"value"`
}

type Handler struct {
	service    Service
	dispatcher *dispatch.Dispatcher
	resolver   auth.SessionResolver
	logger     *slog.Logger
}

func New(svc Service, d *dispatch.Dispatcher, resolver auth.SessionResolver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: svc, dispatcher: d, resolver: resolver, logger: logger}
}

// Register mounts the admin settings routes.
func (h *Handler) Register(r chi.Router) {
	r.Handle("/api/admin/settings",
		h.dispatcher.Route([]string{http.MethodGet}, auth.RequireAdmin(h.resolver, h.HandleList)))
	r.Handle("/api/admin/settings/{key}",
		h.dispatcher.Route([]string{http.MethodPut}, auth.RequireAdmin(h.resolver, h.HandleUpdate)))
}

func (h *Handler) HandleList(r *http.Request) (*dispatch.Response, error) {
	params, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}
	data, err := h.service.List(r.Context(), params)
	if err != nil {
		return nil, err
	}
	return dispatch.OK(data), nil
}

func (h *Handler) HandleUpdate(r *http.Request) (*dispatch.Response, error) {
	req, err := httputil.DecodeJSON[UpdateRequest](r)
	if err != nil {
		return nil, err
	}
	ctx := r.Context()
	key := chi.URLParam(r, "key")
	view, err := h.service.Update(ctx, key, req.Value)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeBadRequest) {
			h.logger.WarnContext(ctx, "setting update rejected",
				"key", key,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return nil, err
	}
	return dispatch.OK(view), nil
}
