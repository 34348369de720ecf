package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mercator-hq/pulse/pkg/telemetry/metrics"
	"mercator-hq/pulse/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/trace"
)

// Label keys of the HTTP request families.
var httpLabelKeys = []string{"method", "path", "status"}

// DescribeHTTPMetrics declares http_requests_total and
// http_requests_duration_seconds so conflicts surface at startup.
func DescribeHTTPMetrics(reg *metrics.Registry) error {
	if err := reg.Describe(metrics.KindCounter, metrics.MetricHTTPRequestsTotal,
		"Total HTTP requests by method, route and status.", httpLabelKeys...); err != nil {
		return fmt.Errorf("failed to declare %s: %w", metrics.MetricHTTPRequestsTotal, err)
	}
	if err := reg.Describe(metrics.KindHistogram, metrics.MetricHTTPRequestDuration,
		"HTTP request latency in seconds by method, route and status.", httpLabelKeys...); err != nil {
		return fmt.Errorf("failed to declare %s: %w", metrics.MetricHTTPRequestDuration, err)
	}
	return nil
}

// InstrumentMiddleware records one http_requests_total increment and one
// http_requests_duration_seconds observation for every completed request.
//
// It must wrap the *http.ServeMux directly: the path label is the pattern
// the mux matched ("/items/{id}"), read from the request after dispatch.
// Unmatched requests use the raw URL path. A request whose handler panics is
// recorded with status 500 and the panic is re-raised for RecoveryMiddleware.
//
// The active server span, if any, is renamed to "<method> <route>" and
// given the HTTP attributes.
//
// Example usage:
//
//	handler = InstrumentMiddleware(registry)(mux)
func InstrumentMiddleware(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			defer func() {
				p := recover()

				status := rw.statusCode
				if p != nil && !rw.written {
					status = http.StatusInternalServerError
				}
				route := Route(r)
				labels := []metrics.Label{
					metrics.L("method", r.Method),
					metrics.L("path", route),
					metrics.L("status", strconv.Itoa(status)),
				}
				reg.IncrementCounter(metrics.MetricHTTPRequestsTotal, labels...)
				reg.ObserveHistogram(metrics.MetricHTTPRequestDuration, time.Since(start).Seconds(), labels...)

				span := trace.SpanFromContext(r.Context())
				span.SetName(r.Method + " " + route)
				tracing.SetHTTPAttributes(span, r.Method, route, status)

				if p != nil {
					panic(p)
				}
			}()

			// r is passed unchanged so the mux's pattern is visible above.
			next.ServeHTTP(rw, r)
		})
	}
}

// Route returns the route template the mux matched for r, without the
// method and host, or the raw URL path when nothing matched. Invalid UTF-8
// in a raw path is replaced with U+FFFD so the value is a legal label.
func Route(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return rawPath(r)
	}

	// "[METHOD ][HOST]/PATH"
	if i := strings.IndexAny(pattern, " \t"); i >= 0 {
		pattern = strings.TrimLeft(pattern[i:], " \t")
	}
	if i := strings.IndexByte(pattern, '/'); i > 0 {
		pattern = pattern[i:]
	}
	if !strings.HasPrefix(pattern, "/") {
		return rawPath(r)
	}

	// "/{$}" matches only the exact path.
	pattern = strings.TrimSuffix(pattern, "{$}")
	return pattern
}

func rawPath(r *http.Request) string {
	return strings.ToValidUTF8(r.URL.Path, "\uFFFD")
}
