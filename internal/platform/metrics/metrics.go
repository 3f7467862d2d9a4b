package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InternalFaults  *prometheus.CounterVec
	SettingsLookups *prometheus.CounterVec
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fairgate_http_requests_total",
			Help: "Dispatched API requests by route, method, status and error identifier",
		}, []string{"route", "method", "status", "error"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fairgate_http_request_duration_seconds",
			Help:    "Latency of dispatched API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		InternalFaults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fairgate_internal_faults_total",
			Help: "Requests that ended in an internal error, including recovered panics",
		}, []string{"route", "kind"}),
		SettingsLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fairgate_settings_lookups_total",
			Help: "Settings lookups by phase and outcome",
		}, []string{"phase", "outcome"}),
	}
}

// ObserveRequest records one dispatched request. errIdent is empty on success.
func (m *Metrics) ObserveRequest(route, method string, status int, errIdent string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status), errIdent).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// IncrementInternalFault counts a fault hidden from the client. kind is
// "error" or "panic".
func (m *Metrics) IncrementInternalFault(route, kind string) {
	if m == nil {
		return
	}
	m.InternalFaults.WithLabelValues(route, kind).Inc()
}

func (m *Metrics) IncrementSettingsLookup(phase, outcome string) {
	if m == nil {
		return
	}
	m.SettingsLookups.WithLabelValues(phase, outcome).Inc()
}
