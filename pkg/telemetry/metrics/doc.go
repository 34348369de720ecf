// Package metrics provides the in-process metric registry and its
// Prometheus exporter.
//
// # Overview
//
// A Registry stores counters, gauges and histograms keyed by metric name and
// label set. Families are created on first write and never removed. The
// HTTP instrumentation, the source poller and the /metrics endpoint all share
// one Registry, which is the only synchronization point between them.
//
// # Usage
//
//	reg, err := metrics.NewRegistry(&cfg.Metrics, nil)
//	if err != nil {
//		return err
//	}
//
//	reg.IncrementCounter("http_requests_total",
//		metrics.L("method", "GET"),
//		metrics.L("path", "/fast"),
//		metrics.L("status", "200"),
//	)
//	reg.ObserveHistogram("http_requests_duration_seconds", 0.012,
//		metrics.L("method", "GET"),
//		metrics.L("path", "/fast"),
//		metrics.L("status", "200"),
//	)
//	reg.SetGauge("weather_temperature", 21.5)
//
//	mux.Handle("GET /metrics", reg.Handler())
//
// # Label Keys
//
// The label keys used with a metric name are fixed by its first write (or by
// Describe). Later writes with different keys, or with a different metric
// type, are dropped, logged once, and counted on
// pulse_registry_rejected_writes_total. Call Describe at startup to turn such
// conflicts into configuration errors.
//
// # Histogram Buckets
//
// Bucket boundaries are chosen once per metric name from an ordered list of
// rules (full, prefix or suffix match on the name); the first matching rule
// wins and prometheus.DefBuckets is used otherwise. Request latency uses:
//
//	0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
//
// # Exposition
//
// Render and Handler produce the Prometheus text format:
//
//	# HELP http_requests_total Total number of HTTP requests
//	# TYPE http_requests_total counter
//	http_requests_total{method="GET",path="/fast",status="200"} 1
//
// Output is sorted by family name and label values, so rendering twice with
// no writes in between yields identical bytes.
package metrics
