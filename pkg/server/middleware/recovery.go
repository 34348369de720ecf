package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// errorResponse is the JSON body written for recovered panics.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// Internal Server Error response as JSON. It logs the panic with stack trace
// for debugging but does not expose internal details to clients.
//
// http.ErrAbortHandler is re-panicked so net/http aborts the connection
// without logging.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"error", err,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(errorResponse{
				Error:     "internal server error",
				RequestID: GetRequestID(r.Context()),
			})
		}()

		next.ServeHTTP(w, r)
	})
}
