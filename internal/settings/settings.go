// Package settings serves typed configuration values stored as raw strings.
//
// Every key is declared once with Define, which fixes its parser and its
// build-phase fallback. Lookups take the returned *Definition, so an
// undeclared key cannot be looked up at all.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"fairgate/internal/platform/metrics"
	dErrors "fairgate/pkg/domain-errors"
)

// Phase selects how the store reaches storage.
type Phase string

const (
	// PhaseBuild is an offline generation run: storage is unreachable and
	// every lookup returns the definition's fallback.
	PhaseBuild Phase = "build"
	// PhaseServing reads and validates the stored value on every lookup.
	PhaseServing Phase = "serving"
)

// ParsePhase maps a configuration string onto a Phase.
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case PhaseBuild, PhaseServing:
		return Phase(s), nil
	default:
		return "", fmt.Errorf("unknown phase %q", s)
	}
}

// Repository reads and writes raw values. A nil value means the row is
// absent or holds NULL; the two are not distinguished.
type Repository interface {
	Get(ctx context.Context, key string) (*string, error)
	Set(ctx context.Context, key string, value *string) error
}

// Schema parses a raw stored value into T. Parse receives nil when nothing
// is stored. Fallback is what the build phase returns.
type Schema[T any] struct {
	Parse    func(raw *string) (T, error)
	Fallback T
}

// Definition is a declared setting key.
type Definition[T any] struct {
	key    string
	schema Schema[T]
}

func (d *Definition[T]) Key() string { return d.key }

func (d *Definition[T]) Fallback() T { return d.schema.Fallback }

func (d *Definition[T]) validate(raw *string) error {
	_, err := d.schema.Parse(raw)
	return err
}

func (d *Definition[T]) fallback() any { return d.schema.Fallback }

// Entry is the type-erased view of a Definition used by admin tooling.
type Entry interface {
	Key() string
	validate(raw *string) error
	fallback() any
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Entry{}
)

// Define declares key. It panics when key is empty or already declared, so a
// bad declaration fails at program start rather than on a request.
func Define[T any](key string, schema Schema[T]) *Definition[T] {
	if key == "" {
		panic("settings: empty key")
	}
	if schema.Parse == nil {
		panic("settings: nil parser for " + key)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[key]; exists {
		panic("settings: duplicate definition for " + key)
	}
	def := &Definition[T]{key: key, schema: schema}
	registry[key] = def
	return def
}

// Lookup finds a declared key by name.
func Lookup(key string) (Entry, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[key]
	return e, ok
}

// Entries returns every declared key in key order.
func Entries() []Entry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Entry, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		switch {
		case a.Key() < b.Key():
			return -1
		case a.Key() > b.Key():
			return 1
		}
		return 0
	})
	return out
}

// Validate checks raw against the entry's parser.
func Validate(e Entry, raw *string) error {
	return e.validate(raw)
}

// Fallback returns the entry's build-phase value.
func Fallback(e Entry) any {
	return e.fallback()
}

// Store resolves definitions to typed values for one phase.
type Store struct {
	phase   Phase
	repo    Repository
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Store)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore builds a store. The serving phase requires a repository; the
// build phase never touches one.
func NewStore(phase Phase, repo Repository, opts ...Option) (*Store, error) {
	if _, err := ParsePhase(string(phase)); err != nil {
		return nil, err
	}
	if phase == PhaseServing && repo == nil {
		return nil, fmt.Errorf("settings repository is required in serving phase")
	}
	s := &Store{phase: phase, repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Phase() Phase { return s.phase }

// Get returns the typed value of def. In the build phase it returns the
// fallback without touching storage. In the serving phase a stored value
// that fails the parser is an Internal error naming the key; it is never
// replaced by a default.
func Get[T any](ctx context.Context, s *Store, def *Definition[T]) (T, error) {
	var zero T
	if s.phase == PhaseBuild {
		s.metrics.IncrementSettingsLookup(string(s.phase), "fallback")
		return def.schema.Fallback, nil
	}

	raw, err := s.repo.Get(ctx, def.key)
	if err != nil {
		s.metrics.IncrementSettingsLookup(string(s.phase), "error")
		return zero, dErrors.Internal(fmt.Sprintf("read setting %s", def.key), err)
	}
	value, err := def.schema.Parse(raw)
	if err != nil {
		s.metrics.IncrementSettingsLookup(string(s.phase), "invalid")
		s.logger.ErrorContext(ctx, "stored setting failed validation",
			"key", def.key,
			"error", err,
		)
		return zero, dErrors.Internal(fmt.Sprintf("setting %s has an invalid stored value", def.key), err)
	}
	s.metrics.IncrementSettingsLookup(string(s.phase), "ok")
	return value, nil
}

// Set writes raw for a declared key after validating it. Writes are not
// possible in the build phase.
func (s *Store) Set(ctx context.Context, e Entry, raw *string) error {
	if s.phase == PhaseBuild {
		return dErrors.Internal("settings are read-only in the build phase", nil)
	}
	if err := e.validate(raw); err != nil {
		return dErrors.BadRequest("invalid-setting", fmt.Sprintf("%s: %v", e.Key(), err))
	}
	if err := s.repo.Set(ctx, e.Key(), raw); err != nil {
		return dErrors.Internal(fmt.Sprintf("write setting %s", e.Key()), err)
	}
	return nil
}

// Raw returns the stored value of e without parsing it. The build phase has
// no stored values.
func (s *Store) Raw(ctx context.Context, e Entry) (*string, error) {
	if s.phase == PhaseBuild {
		return nil, nil
	}
	raw, err := s.repo.Get(ctx, e.Key())
	if err != nil {
		return nil, dErrors.Internal(fmt.Sprintf("read setting %s", e.Key()), err)
	}
	return raw, nil
}
