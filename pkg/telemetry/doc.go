// Package telemetry groups the observability packages used by Pulse.
//
// # Components
//
//   - logging: Structured logging with a runtime-adjustable level and
//     request/trace correlation
//   - metrics: The Prometheus metric registry that every writer shares,
//     with per-name histogram buckets and the text exposition handler
//   - tracing: OpenTelemetry distributed tracing and W3C trace context
//     propagation to the polled service
//   - health: Readiness checks served at /ready
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//		return err
//	}
//	slog.SetDefault(logger.Slog())
//
//	reg, err := metrics.NewRegistry(&cfg.Metrics, prometheus.NewRegistry())
//	if err != nil {
//		return err
//	}
//	reg.IncrementCounter("weather_requests_success_total")
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
// # Performance
//
// Metric writes take a read lock on the family table and then go straight
// to the prometheus vector. Logging below the configured level costs a
// level comparison. With tracing disabled spans are noops.
package telemetry
