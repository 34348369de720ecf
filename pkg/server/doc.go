// Package server provides the Pulse HTTP server.
//
// This package ties together the handlers, the middleware chain and the
// metric registry, and manages the server lifecycle.
//
// # Basic Usage
//
//	srv, err := server.NewServer(&cfg.Server, &cfg.Metrics, server.Options{
//	    Registry: registry,
//	    Health:   checker,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := srv.Start(ctx); err != nil {
//	    return err // bind failure or serve error
//	}
//
// Start binds the listen address before returning control to the serve
// loop, so an address already in use is reported as an error from Start.
//
// # Graceful Shutdown
//
// Cancelling the context passed to Start, or calling Stop, shuts the server
// down gracefully:
//  1. Stops accepting new connections
//  2. Waits for active requests to complete (up to server.shutdown_timeout)
//  3. Returns from Start
//
// # Routes
//
//   - GET /         - "ok"
//   - GET /fast     - JSON message with a fresh UUID
//   - GET /slow     - "slow" after server.slow_delay
//   - GET /metrics  - Prometheus text exposition (metrics.path)
//   - GET /ready    - Readiness of the database (when configured)
//   - GET, POST /db - Database greeting (only when a database URL is set)
//
// # Middleware Chain
//
// Requests pass through the following middleware (innermost to outermost):
//  1. Instrument: Records request count and latency by route
//  2. Logging: Logs request/response details
//  3. Tracing: Server span with W3C trace context
//  4. RequestID: Generates unique request ID
//  5. Recovery: Recovers from panics and returns 500 error
//
// # Thread Safety
//
// All server operations are thread-safe and can be called concurrently from
// multiple goroutines.
package server
