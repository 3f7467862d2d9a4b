package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"fairgate/internal/document"
	"fairgate/pkg/domain"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/sentinel"
	"fairgate/pkg/requestcontext"
)

type Store interface {
	FindByID(ctx context.Context, id domain.DocumentID) (*document.Document, error)
	Save(ctx context.Context, d *document.Document) error
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, logger: logger}, nil
}

func (s *Service) Get(ctx context.Context, id domain.DocumentID) (*document.Document, error) {
	d, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.NotFound("document not found")
	}
	if err != nil {
		return nil, dErrors.Internal("find document", err)
	}
	return d, nil
}

func (s *Service) Upload(ctx context.Context, u document.Upload) (*document.Document, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	d := &document.Document{
		ID:          domain.DocumentID(uuid.New()),
		ExhibitorID: u.ExhibitorID,
		FileName:    u.FileName,
		ContentType: u.ContentType,
		Size:        int64(len(u.Data)),
		Data:        u.Data,
		CreatedAt:   requestcontext.Now(ctx).UTC(),
	}
	if err := s.store.Save(ctx, d); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.NotFound("exhibitor not found")
		}
		return nil, dErrors.Internal("save document", err)
	}
	s.logger.InfoContext(ctx, "document uploaded",
		"document_id", d.ID.String(),
		"size", d.Size,
		"request_id", requestcontext.RequestID(ctx),
	)
	return d, nil
}
