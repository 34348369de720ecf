package handlers

import (
	"context"
	"log/slog"
	"net/http"
)

// Greeter runs the database greeting query.
type Greeter interface {
	// Hello uses a pooled connection.
	Hello(ctx context.Context) (string, error)
	// HelloConn uses a connection dedicated to the call.
	HelloConn(ctx context.Context) (string, error)
}

// DatabaseHandler answers with the result of the greeting query. GET uses
// the pool; POST checks out a dedicated connection.
type DatabaseHandler struct {
	Store Greeter
}

// NewDatabaseHandler creates a new database handler.
func NewDatabaseHandler(store Greeter) *DatabaseHandler {
	return &DatabaseHandler{Store: store}
}

// ServeHTTP implements http.Handler.
func (h *DatabaseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var (
		msg string
		err error
	)
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		msg, err = h.Store.Hello(r.Context())
	case http.MethodPost:
		msg, err = h.Store.HelloConn(r.Context())
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		writeText(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err != nil {
		internalError(w, r, err)
		return
	}
	writeText(w, http.StatusOK, msg)
}

// internalError logs err and answers 500 with a generic message. Driver
// errors can carry file paths or connection details and stay in the log.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeText(w, http.StatusInternalServerError, "internal server error")
}
