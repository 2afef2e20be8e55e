package middleware

import (
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
)

// Logging returns middleware that logs every request once it completes:
// method, path, status, request id and duration. Server errors log at Error,
// client errors at Warn.
func Logging(clock clockwork.Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := clock.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"request_id", GetRequestID(r.Context()),
				"duration_ms", clock.Since(start).Milliseconds(),
			}
			switch {
			case rec.status >= http.StatusInternalServerError:
				slog.Error("Request failed", attrs...)
			case rec.status >= http.StatusBadRequest:
				slog.Warn("Request rejected", attrs...)
			default:
				slog.Info("Request completed", attrs...)
			}
		})
	}
}
