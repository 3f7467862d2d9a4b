package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("/api/exhibitors", "GET", 200, "", 10*time.Millisecond)
	m.ObserveRequest("/api/exhibitors", "GET", 400, "invalid-parameter", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/exhibitors", "GET", "400", "invalid-parameter")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/", "GET", 200, "", time.Second)
		m.IncrementInternalFault("/", "panic")
		m.IncrementSettingsLookup("build", "fallback")
	})
}
