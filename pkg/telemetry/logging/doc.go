// Package logging provides structured logging built on log/slog.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - A minimum level that can be changed at runtime
//   - Context-aware logging with request IDs and trace correlation
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "request completed", "status", 200)
//
// Records logged with a context carry request_id when one was stored with
// WithRequestID, and trace_id/span_id when the context holds a valid
// OpenTelemetry span.
//
// # Reloading
//
// SetLevel changes the level of the logger and of every logger derived from
// it through With, so a configuration reload takes effect immediately.
package logging
