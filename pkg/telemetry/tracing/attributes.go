package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys used throughout the system. HTTP keys follow the
// OpenTelemetry semantic conventions; Pulse-specific keys use the "pulse.*"
// namespace.
const (
	// HTTP attributes
	AttrHTTPMethod = "http.request.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.response.status_code"

	// Request attributes
	AttrRequestID = "pulse.request_id"

	// Poller attributes
	AttrSource        = "pulse.source"
	AttrSourceOutcome = "pulse.source.outcome"
	AttrSourceURL     = "url.full"

	// Error attributes
	AttrErrorType    = "error.type"
	AttrErrorMessage = "error.message"
)

// SetHTTPAttributes sets request attributes on a server span. route is the
// matched route template, or the raw path when no route matched.
func SetHTTPAttributes(span trace.Span, method, route string, status int) {
	span.SetAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrHTTPRoute, route),
		attribute.Int(AttrHTTPStatus, status),
	)
}

// SetSourceAttributes sets poller attributes on a fetch span.
func SetSourceAttributes(span trace.Span, source, url, outcome string) {
	span.SetAttributes(
		attribute.String(AttrSource, source),
		attribute.String(AttrSourceURL, url),
		attribute.String(AttrSourceOutcome, outcome),
	)
}

// SetErrorType records the error classification on a span.
func SetErrorType(span trace.Span, errorType string) {
	if errorType == "" {
		return
	}
	span.SetAttributes(attribute.String(AttrErrorType, errorType))
}
