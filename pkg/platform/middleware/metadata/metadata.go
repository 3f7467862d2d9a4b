package metadata

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"fairgate/pkg/requestcontext"
)

// ClientMetadata records client IP, User-Agent and a browser/os summary in
// the request context. Apply it early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), ua, DeviceSummary(ua))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DeviceSummary renders a User-Agent as "browser/os", "bot/<name>" for
// crawlers, or "" when the header is empty.
func DeviceSummary(ua string) string {
	if ua == "" {
		return ""
	}
	parsed := useragent.New(ua)
	browser, _ := parsed.Browser()
	if parsed.Bot() {
		return "bot/" + browser
	}
	osName := parsed.OSInfo().Name
	if osName == "" {
		osName = "unknown"
	}
	summary := browser + "/" + osName
	if parsed.Mobile() {
		summary += " (mobile)"
	}
	return summary
}

// ClientIPFromRequest extracts the client IP, preferring proxy headers.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
