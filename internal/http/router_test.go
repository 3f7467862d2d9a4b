package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairgate/internal/platform/metrics"
	"fairgate/pkg/platform/dispatch"
	"fairgate/pkg/platform/middleware/admin"
	request "fairgate/pkg/platform/middleware/request"
	"fairgate/pkg/requestcontext"
	"fairgate/pkg/testutil"
)

type pingRoutes struct {
	d *dispatch.Dispatcher
}

func (p pingRoutes) Register(r chi.Router) {
	r.Handle("/api/ping", p.d.Route([]string{http.MethodGet}, func(r *http.Request) (*dispatch.Response, error) {
		ctx := r.Context()
		return dispatch.OK(map[string]any{
			"requestId": requestcontext.RequestID(ctx),
			"clientIp":  requestcontext.ClientIP(ctx),
		}), nil
	}))
}

func newTestRouter(t *testing.T, health map[string]HealthCheck) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	d := dispatch.New(dispatch.WithLogger(logger), dispatch.WithMetrics(metrics.New(reg)))
	return NewRouter(Options{
		Logger:   logger,
		Gatherer: reg,
		OpsToken: "ops-secret",
		Health:   health,
	}, pingRoutes{d: d})
}

func TestRegisteredRoutesSeeRequestMetadata(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(request.HeaderRequestID, "trace-123")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rr := testutil.DoRequest(router, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "trace-123", rr.Header().Get(request.HeaderRequestID))
	body := testutil.UnmarshalResponse[map[string]string](t, rr)
	assert.Equal(t, "trace-123", (*body)["requestId"])
	assert.Equal(t, "203.0.113.9", (*body)["clientIp"])
}

func TestHealth(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		router := newTestRouter(t, map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
		})
		rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"postgres":"ok"}}`, rr.Body.String())
	})

	t.Run("failing dependency", func(t *testing.T) {
		router := newTestRouter(t, map[string]HealthCheck{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "degraded")
	})
}

func TestMetricsRequireOpsToken(t *testing.T) {
	router := newTestRouter(t, nil)
	testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(admin.HeaderOpsToken, "ops-secret")
	rr = testutil.DoRequest(router, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "fairgate_http_requests_total")
}

func TestUnknownPathIsJSONNotFound(t *testing.T) {
	router := newTestRouter(t, nil)
	rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/api/nowhere", nil))
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}
