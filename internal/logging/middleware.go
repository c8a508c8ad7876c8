package logging

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

const maxHeaderValueLength = 64

// headerOrMissing returns the header value truncated for logging, or <missing>
func headerOrMissing(r *http.Request, name string) string {
	value := r.Header.Get(name)
	if value == "" {
		return "<missing>"
	}
	if len(value) > maxHeaderValueLength {
		return value[:maxHeaderValueLength] + "..."
	}
	return value
}

// NewRequestLoggerMiddleware stores a logger tagged with request metadata in the request
// context. Each request gets a correlation id, which is echoed in the X-Correlation-Id
// response header so users can quote it in bug reports.
func NewRequestLoggerMiddleware(logger *slog.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			correlationID := uuid.NewString()
			w.Header().Set("X-Correlation-Id", correlationID)

			requestLogger := logger.With(
				slog.String("correlationID", correlationID),
				slog.String("methodPath", r.Method+" "+r.URL.Path),
				slog.String("userId", headerOrMissing(r, "X-User-Id")),
				slog.String("userAgent", headerOrMissing(r, "User-Agent")),
				slog.Int64("contentLength", r.ContentLength),
			)

			next(w, r.WithContext(AddToContext(r.Context(), requestLogger)))
		}
	}
}
