package audit

import (
	"context"
	"log/slog"
)

// Worker drains queued events into a sink. A failing sink is logged and the
// event dropped; audit delivery never stops the process.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run blocks until ctx is done or inbox is closed. On cancellation it
// flushes whatever is already queued.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return nil
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.inbox:
			if !ok {
				return
			}
			w.deliver(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, event Event) {
	if err := w.sink.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to deliver audit event",
			"error", err,
			"action", event.Action,
			"event_id", event.ID.String(),
			"request_id", event.RequestID,
		)
	}
}
