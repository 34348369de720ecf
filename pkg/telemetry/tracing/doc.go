// Package tracing provides OpenTelemetry distributed tracing for Pulse.
//
// # Overview
//
// The tracing package sets up the OpenTelemetry SDK with an OTLP gRPC
// exporter, installs the W3C Trace Context propagator, and offers helpers
// for span attributes. Incoming requests are joined to the caller's trace,
// and each poll cycle becomes a root span with one child per source fetch.
//
// # Trace Context Propagation
//
// The W3C Trace Context propagator is installed even when tracing is
// disabled, so trace headers received from callers still reach the polled
// service through Transport:
//
//	traceparent: 00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01
//
// # Sampling Strategies
//
// Three sampling strategies are supported:
//   - always: Sample all traces (development/debugging)
//   - never: Sample no traces
//   - ratio: Sample a percentage of traces (production)
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "poll.cycle")
//	defer span.End()
package tracing
