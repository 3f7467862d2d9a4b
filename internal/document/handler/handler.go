package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fairgate/internal/document"
	"fairgate/pkg/domain"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/dispatch"
	"fairgate/pkg/platform/middleware/auth"
	"fairgate/pkg/requestcontext"
)

type Service interface {
	Get(ctx context.Context, id domain.DocumentID) (*document.Document, error)
	Upload(ctx context.Context, u document.Upload) (*document.Document, error)
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
	r.Handle("/api/documents/{id}",
		h.dispatcher.Route([]string{http.MethodGet}, auth.RequireSession(h.resolver, h.HandleDownload)))
	r.Handle("/api/admin/exhibitors/{id}/documents",
		h.dispatcher.Route([]string{http.MethodPost}, auth.RequireAdmin(h.resolver, h.HandleUpload)))
}

// HandleDownload streams the stored bytes back with their recorded type and
// size. A record whose size disagrees with its bytes is never served.
func (h *Handler) HandleDownload(r *http.Request) (*dispatch.Response, error) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if d.Size != int64(len(d.Data)) {
		return nil, dErrors.Internal(fmt.Sprintf("document %s size %d does not match %d stored bytes", id, d.Size, len(d.Data)), nil)
	}
	return dispatch.Binary(d.ContentType, d.Data).
		WithHeader("Content-Disposition", d.ContentDisposition()), nil
}

// HandleUpload takes the raw request body as the document. The file name
// comes from the fileName query parameter.
func (h *Handler) HandleUpload(r *http.Request) (*dispatch.Response, error) {
	exhibitorID, err := domain.ParseExhibitorID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	ctx := r.Context()
	if r.ContentLength > document.MaxSize {
		h.rejectUpload(ctx, exhibitorID, "declared length over limit")
		return nil, dErrors.BadRequest("invalid-body", "document is too large")
	}
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, document.MaxSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectUpload(ctx, exhibitorID, "body over limit")
			return nil, dErrors.BadRequest("invalid-body", "document is too large")
		}
		h.rejectUpload(ctx, exhibitorID, err.Error())
		return nil, dErrors.BadRequest("invalid-body", "could not read document")
	}
	d, err := h.service.Upload(ctx, document.Upload{
		ExhibitorID: &exhibitorID,
		FileName:    r.URL.Query().Get("fileName"),
		ContentType: r.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return nil, err
	}
	return dispatch.Created(d.Metadata()).
		WithHeader("Location", "/api/documents/"+d.ID.String()), nil
}

func (h *Handler) rejectUpload(ctx context.Context, exhibitorID domain.ExhibitorID, reason string) {
	h.logger.WarnContext(ctx, "document upload rejected",
		"exhibitor_id", exhibitorID.String(),
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
}
