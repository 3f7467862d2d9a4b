package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairgate/pkg/platform/circuit"
)

type flakySink struct {
	down bool
	got  int
}

func (f *flakySink) Append(context.Context, Event) error {
	if f.down {
		return errors.New("broker unreachable")
	}
	f.got++
	return nil
}

func TestResilientSinkFallsBackWhileOpen(t *testing.T) {
	ctx := context.Background()
	primary := &flakySink{down: true}
	fallback := NewMemorySink()
	sink := NewResilientSink(primary, fallback,
		circuit.New("kafka", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1)),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := sink.Append(ctx, Event{Subject: "first"})
	assert.Error(t, err, "closed breaker surfaces the failure")
	assert.Empty(t, fallback.Events())

	require.NoError(t, sink.Append(ctx, Event{Subject: "second"}))
	require.NoError(t, sink.Append(ctx, Event{Subject: "third"}))
	assert.Len(t, fallback.Events(), 2)

	primary.down = false
	require.NoError(t, sink.Append(ctx, Event{Subject: "fourth"}))
	assert.Equal(t, 1, primary.got)
	assert.Len(t, fallback.Events(), 2)
}
