package health

import (
	"encoding/json"
	"net/http"
)

// ReadinessHandler returns an HTTP handler for the readiness endpoint.
// It performs all registered component health checks.
//
// Returns:
//   - 200 OK: every component is healthy
//   - 503 Service Unavailable: at least one component is unhealthy
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "database": {"status": "unhealthy", "message": "database is closed"}
//	    },
//	    "timestamp": "2026-10-18T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.CheckReadiness(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if status.Ready() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if r.Method != http.MethodHead {
			_ = json.NewEncoder(w).Encode(status)
		}
	}
}
