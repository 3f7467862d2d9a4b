// Package httpapi assembles the public router: shared middleware, health and
// metrics endpoints, and every bounded context's routes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/httputil"
	"fairgate/pkg/platform/middleware/admin"
	"fairgate/pkg/platform/middleware/metadata"
	request "fairgate/pkg/platform/middleware/request"
	"fairgate/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// Registrar mounts one context's routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one dependency. A nil error is healthy.
type HealthCheck func(ctx context.Context) error

type Options struct {
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	OpsToken string
	Health   map[string]HealthCheck
}

// NewRouter builds the root handler. Middleware order matters: the request
// id comes first so every later log line can carry it.
func NewRouter(opts Options, registrars ...Registrar) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(opts.Logger))

	r.Get("/healthz", healthHandler(opts.Health))
	if opts.Gatherer != nil {
		r.With(admin.RequireOpsToken(opts.OpsToken, opts.Logger)).
			Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	for _, reg := range registrars {
		reg.Register(r)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.NotFound("no such endpoint"))
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
