package audit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairgate/pkg/domain"
	"fairgate/pkg/platform/session"
	"fairgate/pkg/requestcontext"
)

func TestEmitStampsRequestMetadata(t *testing.T) {
	sink := NewMemorySink()
	pub := NewPublisher(sink)
	uid := domain.UserID(uuid.New())
	now := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)

	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithRequestID(ctx, "req-1")
	ctx = requestcontext.WithClientMetadata(ctx, "192.0.2.1", "curl/8", "curl/unknown")
	ctx = requestcontext.WithSession(ctx, &session.Session{UserID: uid, Role: domain.RoleAdmin})

	require.NoError(t, pub.Emit(ctx, Event{Action: ActionSettingUpdated, Subject: "exhibitors.published"}))

	events := sink.Events()
	require.Len(t, events, 1)
	got := events[0]
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, now, got.Timestamp)
	assert.Equal(t, uid.String(), got.ActorID)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, "192.0.2.1", got.ClientIP)
	assert.Equal(t, "curl/unknown", got.Device)
}

func TestEmitKeepsExplicitFields(t *testing.T) {
	sink := NewMemorySink()
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, NewPublisher(sink).Emit(context.Background(), Event{
		Action: ActionExhibitorCreated, ActorID: "cli", Timestamp: ts,
	}))

	got := sink.Events()[0]
	assert.Equal(t, "cli", got.ActorID)
	assert.Equal(t, ts, got.Timestamp)
}

func TestQueueSinkRejectsWhenFull(t *testing.T) {
	queue := make(chan Event, 1)
	sink := QueueSink(queue)

	require.NoError(t, sink.Append(context.Background(), Event{Action: ActionSettingUpdated}))
	assert.ErrorIs(t, sink.Append(context.Background(), Event{Action: ActionSettingUpdated}), ErrQueueFull)
}

type failingSink struct{ calls int }

func (f *failingSink) Append(context.Context, Event) error {
	f.calls++
	return errors.New("broker unavailable")
}

func TestWorkerDeliversAndFlushesOnShutdown(t *testing.T) {
	queue := make(chan Event, 4)
	sink := NewMemorySink()
	worker := NewWorker(sink, queue, slog.New(slog.NewTextHandler(io.Discard, nil)))

	queue <- Event{Subject: "a"}
	queue <- Event{Subject: "b"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, worker.Run(ctx))
	assert.Len(t, sink.Events(), 2)
}

func TestWorkerSurvivesSinkFailures(t *testing.T) {
	queue := make(chan Event, 2)
	sink := &failingSink{}
	worker := NewWorker(sink, queue, slog.New(slog.NewTextHandler(io.Discard, nil)))

	queue <- Event{Subject: "a"}
	queue <- Event{Subject: "b"}
	close(queue)

	require.NoError(t, worker.Run(context.Background()))
	assert.Equal(t, 2, sink.calls)
}

func TestLogSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, sink.Append(context.Background(), Event{
		ID:      uuid.New(),
		Action:  ActionExhibitorCreated,
		Subject: "acme",
	}))

	assert.Contains(t, buf.String(), `"action":"exhibitor_created"`)
	assert.Contains(t, buf.String(), `"subject":"acme"`)
}
