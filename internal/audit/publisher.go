package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"fairgate/pkg/requestcontext"
)

// ErrQueueFull is returned when the async queue cannot take another event.
var ErrQueueFull = errors.New("audit queue full")

// Sink persists or forwards events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps events with request metadata before handing them to a sink.
type Publisher struct {
	sink Sink
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink}
}

// Emit fills ID, timestamp, actor and client metadata from ctx where the
// caller left them empty.
func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	if base.Timestamp.IsZero() {
		base.Timestamp = requestcontext.Now(ctx)
	}
	if base.ActorID == "" {
		if uid := requestcontext.UserID(ctx); !uid.IsNil() {
			base.ActorID = uid.String()
		}
	}
	if base.RequestID == "" {
		base.RequestID = requestcontext.RequestID(ctx)
	}
	if base.ClientIP == "" {
		base.ClientIP = requestcontext.ClientIP(ctx)
	}
	if base.Device == "" {
		base.Device = requestcontext.Device(ctx)
	}
	return p.sink.Append(ctx, base)
}

// QueueSink hands events to a Worker without blocking the request path.
type QueueSink chan<- Event

func (q QueueSink) Append(_ context.Context, event Event) error {
	select {
	case q <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// MemorySink keeps events in memory for tests and single-process runs.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Append(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of everything appended so far.
func (m *MemorySink) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// LogSink writes events as structured log lines. The server uses it when no
// Kafka brokers are configured.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (l *LogSink) Append(ctx context.Context, event Event) error {
	l.logger.InfoContext(ctx, "audit event",
		"event_id", event.ID.String(),
		"action", string(event.Action),
		"actor_id", event.ActorID,
		"subject", event.Subject,
		"detail", event.Detail,
		"request_id", event.RequestID,
	)
	return nil
}
