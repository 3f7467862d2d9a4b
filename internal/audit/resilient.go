package audit

import (
	"context"
	"log/slog"

	"fairgate/pkg/platform/circuit"
)

// ResilientSink delivers to primary and, once primary has failed often
// enough to open the breaker, hands events to fallback instead of dropping
// them. Primary is still tried on every event so the breaker can close.
type ResilientSink struct {
	primary  Sink
	fallback Sink
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewResilientSink(primary, fallback Sink, breaker *circuit.Breaker, logger *slog.Logger) *ResilientSink {
	return &ResilientSink{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (s *ResilientSink) Append(ctx context.Context, event Event) error {
	err := s.primary.Append(ctx, event)
	if err == nil {
		if _, change := s.breaker.RecordSuccess(); change.Closed {
			s.logger.InfoContext(ctx, "audit sink recovered", "breaker", s.breaker.Name())
		}
		return nil
	}

	useFallback, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "audit sink circuit opened",
			"breaker", s.breaker.Name(),
			"error", err,
		)
	}
	if useFallback {
		return s.fallback.Append(ctx, event)
	}
	return err
}
