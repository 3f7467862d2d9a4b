// Package service implements admin reads and writes of declared settings.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"fairgate/internal/audit"
	"fairgate/internal/settings"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/pagination"
	"fairgate/pkg/requestcontext"
)

// AuditPublisher records setting changes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// View is one setting as an admin sees it: the raw stored text and whether
// it currently passes its parser.
type View struct {
	Key      string  `json:"key"`
	Value    *string `json:"value"`
	Valid    bool    `json:"valid"`
	Problem  string  `json:"problem,omitempty"`
	Fallback any     `json:"fallback"`
}

type Service struct {
	store   *settings.Store
	auditor AuditPublisher
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func New(store *settings.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("settings store is required")
	}
	s := &Service{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List pages through every declared key in key order.
func (s *Service) List(ctx context.Context, p pagination.Params) (pagination.Data[View], error) {
	page := pagination.Slice(settings.Entries(), p)
	views := make([]View, 0, len(page.Results))
	for _, entry := range page.Results {
		view, err := s.view(ctx, entry)
		if err != nil {
			return pagination.Data[View]{}, err
		}
		views = append(views, view)
	}
	return pagination.Data[View]{PageCount: page.PageCount, Results: views}, nil
}

// Update validates and stores raw for key, then records an audit event.
// A nil raw clears the stored value.
func (s *Service) Update(ctx context.Context, key string, raw *string) (View, error) {
	entry, ok := settings.Lookup(key)
	if !ok {
		return View{}, dErrors.NotFound(fmt.Sprintf("unknown setting %s", key))
	}
	if err := s.store.Set(ctx, entry, raw); err != nil {
		return View{}, err
	}

	s.logger.InfoContext(ctx, "setting updated",
		"key", key,
		"cleared", raw == nil,
		"user_id", requestcontext.UserID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitAudit(ctx, key, raw)

	return View{Key: key, Value: raw, Valid: true, Fallback: settings.Fallback(entry)}, nil
}

func (s *Service) view(ctx context.Context, entry settings.Entry) (View, error) {
	raw, err := s.store.Raw(ctx, entry)
	if err != nil {
		return View{}, err
	}
	v := View{Key: entry.Key(), Value: raw, Valid: true, Fallback: settings.Fallback(entry)}
	if s.store.Phase() == settings.PhaseServing {
		if err := settings.Validate(entry, raw); err != nil {
			v.Valid = false
			v.Problem = err.Error()
		}
	}
	return v, nil
}

func (s *Service) emitAudit(ctx context.Context, key string, raw *string) {
	if s.auditor == nil {
		return
	}
	detail := "cleared"
	if raw != nil {
		detail = "set"
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		Action:  audit.ActionSettingUpdated,
		Subject: key,
		Detail:  detail,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"key", key,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
