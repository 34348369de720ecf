package middleware

import (
	"log/slog"
	"net/http"
)

// CallLogMiddleware logs "handler called" before passing the request on.
// It writes no metrics.
func CallLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.InfoContext(r.Context(), "handler called",
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r)
	})
}
