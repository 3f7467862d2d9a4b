package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairgate/internal/exhibitor"
	"fairgate/pkg/domain"
	"fairgate/pkg/platform/dispatch"
	"fairgate/pkg/platform/httputil"
	"fairgate/pkg/platform/middleware/auth"
	"fairgate/pkg/platform/pagination"
	"fairgate/pkg/requestcontext"
)

// Service is the exhibitor surface the handler needs.
type Service interface {
	DefaultPageSize(ctx context.Context) (int, error)
	List(ctx context.Context, p pagination.Params) (pagination.Data[exhibitor.Exhibitor], error)
	Get(ctx context.Context, id domain.ExhibitorID) (*exhibitor.Exhibitor, error)
	Create(ctx context.Context, req exhibitor.CreateRequest) (*exhibitor.Exhibitor, error)
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

func (h *Handler) Register(r chi.Router) {
	r.Handle("/api/exhibitors",
		h.dispatcher.Route([]string{http.MethodGet}, auth.RequireSession(h.resolver, h.HandleList)))
	r.Handle("/api/exhibitors/{id}",
		h.dispatcher.Route([]string{http.MethodGet}, auth.RequireSession(h.resolver, h.HandleGet)))
	r.Handle("/api/admin/exhibitors",
		h.dispatcher.Route([]string{http.MethodPost}, auth.RequireAdmin(h.resolver, h.HandleCreate)))
}

// HandleList serves one page of exhibitors. Without pageSize the page size
// comes from the exhibitors.page_size setting.
func (h *Handler) HandleList(r *http.Request) (*dispatch.Response, error) {
	ctx := r.Context()
	size, err := h.service.DefaultPageSize(ctx)
	if err != nil {
		return nil, err
	}
	params, err := pagination.FromQueryWithDefault(r.URL.Query(), size)
	if err != nil {
		h.logger.InfoContext(ctx, "exhibitor list parameters rejected",
			"query", r.URL.RawQuery,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}
	data, err := h.service.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return dispatch.OK(data), nil
}

func (h *Handler) HandleGet(r *http.Request) (*dispatch.Response, error) {
	id, err := domain.ParseExhibitorID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return dispatch.OK(e), nil
}

func (h *Handler) HandleCreate(r *http.Request) (*dispatch.Response, error) {
	req, err := httputil.DecodeJSON[exhibitor.CreateRequest](r)
	if err != nil {
		return nil, err
	}
	e, err := h.service.Create(r.Context(), *req)
	if err != nil {
		return nil, err
	}
	return dispatch.Created(e), nil
}
