// Package service implements exhibitor listing and creation.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"fairgate/internal/audit"
	"fairgate/internal/exhibitor"
	"fairgate/internal/settings"
	"fairgate/pkg/domain"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/pagination"
	"fairgate/pkg/platform/sentinel"
	"fairgate/pkg/requestcontext"
)

// Store is the exhibitor persistence the service needs.
type Store interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, skip, take int) ([]exhibitor.Exhibitor, error)
	FindByID(ctx context.Context, id domain.ExhibitorID) (*exhibitor.Exhibitor, error)
	Create(ctx context.Context, e *exhibitor.Exhibitor) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store    Store
	settings *settings.Store
	auditor  AuditPublisher
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func New(store Store, settingsStore *settings.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("exhibitor store is required")
	}
	if settingsStore == nil {
		return nil, fmt.Errorf("settings store is required")
	}
	s := &Service{
		store:    store,
		settings: settingsStore,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DefaultPageSize is the page size used when a list request names none.
func (s *Service) DefaultPageSize(ctx context.Context) (int, error) {
	return settings.Get(ctx, s.settings, settings.ExhibitorsPageSize)
}

// List pages through exhibitors. Until the list is published only admins
// see it; everyone else gets NotFound.
func (s *Service) List(ctx context.Context, p pagination.Params) (pagination.Data[exhibitor.Exhibitor], error) {
	if err := s.ensureVisible(ctx); err != nil {
		return pagination.Data[exhibitor.Exhibitor]{}, err
	}
	data, err := pagination.Query[exhibitor.Exhibitor](ctx, p, s.store.Count, s.store.List)
	if err != nil {
		return pagination.Data[exhibitor.Exhibitor]{}, dErrors.Internal("list exhibitors", err)
	}
	return data, nil
}

func (s *Service) Get(ctx context.Context, id domain.ExhibitorID) (*exhibitor.Exhibitor, error) {
	if err := s.ensureVisible(ctx); err != nil {
		return nil, err
	}
	e, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.NotFound("exhibitor not found")
	}
	if err != nil {
		return nil, dErrors.Internal("find exhibitor", err)
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, req exhibitor.CreateRequest) (*exhibitor.Exhibitor, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	e := &exhibitor.Exhibitor{
		ID:        domain.ExhibitorID(uuid.New()),
		Name:      req.Name,
		Industry:  req.Industry,
		Booth:     req.Booth,
		CreatedAt: requestcontext.Now(ctx).UTC(),
	}
	if err := s.store.Create(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.BadRequest("duplicate-name", "an exhibitor with this name already exists")
		}
		return nil, dErrors.Internal("create exhibitor", err)
	}

	s.logger.InfoContext(ctx, "exhibitor created",
		"exhibitor_id", e.ID.String(),
		"user_id", requestcontext.UserID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.auditor != nil {
		if err := s.auditor.Emit(ctx, audit.Event{
			Action:  audit.ActionExhibitorCreated,
			Subject: e.ID.String(),
			Detail:  e.Name,
		}); err != nil {
			s.logger.ErrorContext(ctx, "failed to emit audit event",
				"error", err,
				"exhibitor_id", e.ID.String(),
			)
		}
	}
	return e, nil
}

func (s *Service) ensureVisible(ctx context.Context) error {
	if requestcontext.IsAdmin(ctx) {
		return nil
	}
	published, err := settings.Get(ctx, s.settings, settings.ExhibitorsPublished)
	if err != nil {
		return err
	}
	if !published {
		return dErrors.NotFound("exhibitors are not published yet")
	}
	return nil
}
