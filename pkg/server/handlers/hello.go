package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RootHandler answers "ok".
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// ServeHTTP implements http.Handler.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

// Message is the body returned by /fast.
type Message struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// FastHandler returns a freshly generated message immediately.
type FastHandler struct{}

// NewFastHandler creates a new fast handler.
func NewFastHandler() *FastHandler {
	return &FastHandler{}
}

// ServeHTTP implements http.Handler.
func (h *FastHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Message{
		ID:   uuid.New(),
		Text: "fast",
	})
}

// SlowHandler waits Delay before answering "slow". A request whose context
// ends first is answered with 503.
type SlowHandler struct {
	Delay time.Duration
}

// NewSlowHandler creates a new slow handler.
func NewSlowHandler(delay time.Duration) *SlowHandler {
	return &SlowHandler{Delay: delay}
}

// ServeHTTP implements http.Handler.
func (h *SlowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timer := time.NewTimer(h.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		writeText(w, http.StatusOK, "slow")
	case <-r.Context().Done():
		slog.DebugContext(r.Context(), "slow request cancelled", "error", r.Context().Err())
		writeText(w, http.StatusServiceUnavailable, "request cancelled")
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
