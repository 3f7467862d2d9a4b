// Package admin guards operational endpoints (metrics) with a static token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	request "fairgate/pkg/platform/middleware/request"
)

// HeaderOpsToken carries the operations token.
const HeaderOpsToken = "X-Ops-Token"

// RequireOpsToken rejects requests without the expected token. An empty
// expectedToken leaves the endpoint open.
func RequireOpsToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expectedToken == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderOpsToken)
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "ops token mismatch",
					"path", r.URL.Path,
					"request_id", request.GetRequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
