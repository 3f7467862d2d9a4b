// Package dispatch is the single entry point every API route goes through.
// It enforces the method gate, runs the handler chain, serializes the result,
// and turns every failure into the error taxonomy's wire format.
package dispatch

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fairgate/internal/platform/metrics"
	dErrors "fairgate/pkg/domain-errors"
	"fairgate/pkg/platform/httputil"
	"fairgate/pkg/requestcontext"
)

// HandlerFunc produces a response or an error for one request.
type HandlerFunc func(r *http.Request) (*Response, error)

// Dispatcher turns HandlerFuncs into http.Handlers.
type Dispatcher struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) { d.tracer = t }
}

func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger: slog.Default(),
		tracer: otel.Tracer("fairgate/dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Route serves h for the listed methods. Any other method fails with
// MethodNotAllowed before h, and therefore before any authorization wrapper
// inside h, runs.
func (d *Dispatcher) Route(methods []string, h HandlerFunc) http.Handler {
	allowed := slices.Clone(methods)
	allow := strings.Join(allowed, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeName(r)
		ctx, span := d.tracer.Start(r.Context(), route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("fairgate.request_id", requestcontext.RequestID(r.Context())),
			),
		)
		defer span.End()
		r = r.WithContext(ctx)
		start := time.Now()

		var (
			resp *Response
			err  error
		)
		if !slices.Contains(allowed, r.Method) {
			w.Header().Set("Allow", allow)
			err = dErrors.MethodNotAllowed()
		} else {
			resp, err = invoke(h, r)
		}

		status, ident := d.write(w, r, route, resp, err)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.RecordError(err)
			span.SetStatus(codes.Error, ident)
		}
		d.metrics.ObserveRequest(route, r.Method, status, ident, time.Since(start))
	})
}

// panicError carries a recovered panic to the error path.
type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }

func invoke(h HandlerFunc, r *http.Request) (resp *Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			resp, err = nil, &panicError{value: rec, stack: debug.Stack()}
		}
	}()
	return h(r)
}

// write serializes the outcome and reports the status and error identifier.
func (d *Dispatcher) write(w http.ResponseWriter, r *http.Request, route string, resp *Response, err error) (int, string) {
	if err != nil {
		return d.writeError(w, r, route, err)
	}
	if resp == nil {
		resp = NoContent()
	}
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	switch {
	case resp.IsBinary():
		httputil.WriteBinary(w, status, resp.ContentType, resp.Raw)
	case status == http.StatusNoContent:
		w.WriteHeader(status)
	default:
		httputil.WriteJSON(w, status, resp.Body)
	}
	return status, ""
}

func (d *Dispatcher) writeError(w http.ResponseWriter, r *http.Request, route string, err error) (int, string) {
	ctx := r.Context()
	de, ok := dErrors.As(err)
	if ok && de.Code() != dErrors.CodeInternal {
		httputil.WriteError(w, de)
		return de.Status(), de.Identifier()
	}

	kind := "error"
	attrs := []any{
		"error", err,
		"route", route,
		"method", r.Method,
		"request_id", requestcontext.RequestID(ctx),
	}
	if p, isPanic := err.(*panicError); isPanic {
		kind = "panic"
		attrs = append(attrs, "stack", string(p.stack))
	}
	d.logger.ErrorContext(ctx, "internal fault while handling request", attrs...)
	d.metrics.IncrementInternalFault(route, kind)

	httputil.WriteError(w, err)
	return http.StatusInternalServerError, string(dErrors.CodeInternal)
}

// routeName prefers the matched chi pattern to keep metric labels bounded.
func routeName(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
