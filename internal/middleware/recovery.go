package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"ghmcp/server/internal/observability"
)

// Recovery is HTTP middleware that recovers from panics.
// It logs the stack trace and returns a 500 Internal Server Error.
//
// Recovery wraps the whole chain, so it sees neither the auth context nor
// the request context set further in. The request ID is read back from the
// response header RequestLogger sets.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := w.Header().Get("X-Request-ID")
				slog.Error("panic recovered", "request_id", requestID, "error", err, "stack", string(debug.Stack()))

				observability.LogSecurityEvent(requestID, "", "panic_recovered", map[string]any{
					"error":  fmt.Sprintf("%v", err),
					"method": r.Method,
					"path":   r.URL.Path,
					"remote": r.RemoteAddr,
				})

				writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
