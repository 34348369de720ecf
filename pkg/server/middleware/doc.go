// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// Middleware functions are chained in a specific order:
//
//	handler = Recovery(RequestID(Tracing(Logging(Instrument(mux)))))
//
// Order (innermost to outermost):
//  1. Instrument: Record http_requests_total and http_requests_duration_seconds
//  2. Logging: Log request/response details
//  3. Tracing: Start the server span, continue incoming trace context
//  4. RequestID: Generate and propagate request ID
//  5. Recovery: Recover from panics
//
// Instrument must sit directly on the *http.ServeMux. The mux stores the
// matched pattern on the request it was handed; any middleware between the
// two that replaces the request (r.WithContext) hides it, and every request
// would then be labelled with its raw path.
//
// # Metrics
//
// Each completed request produces exactly one counter increment and one
// histogram observation, labelled with the method, the route template and
// the status code:
//
//	http_requests_total{method="GET",path="/fast",status="200"} 1
//	http_requests_duration_seconds_bucket{method="GET",path="/fast",status="200",le="0.05"} 1
//
// Requests that match no route are labelled with their raw path, so a
// stream of 404s for distinct URLs creates one series per URL.
//
// # Request ID
//
// RequestIDMiddleware generates a UUID v4 for each request unless the client
// sent one:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// The ID is stored with logging.WithRequestID, so every log record written
// with the request context carries it.
//
// # Recovery
//
// RecoveryMiddleware catches panics in handlers and converts them to HTTP
// 500 errors:
//
//	{"error": "internal server error", "request_id": "550e8400-..."}
//
// The panic stack trace is logged but not exposed to clients.
package middleware
