package config

import "time"

// Config is the root configuration structure for Pulse.
// It contains all configuration sections for the HTTP server, the source
// poller, the metric registry, the optional database, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and the artificial delay of the /slow route.
	Server ServerConfig `yaml:"server"`

	// Poller contains configuration for the background source poller.
	Poller PollerConfig `yaml:"poller"`

	// Metrics contains metric registry and exposition configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Database contains configuration for the optional database route.
	Database DatabaseConfig `yaml:"database"`

	// Telemetry contains configuration for logging and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:9000", "0.0.0.0:9000").
	// Default: "127.0.0.1:9000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Must be longer than SlowDelay.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// SlowDelay is how long the /slow route waits before responding.
	// Default: 3s
	SlowDelay time.Duration `yaml:"slow_delay"`
}

// PollerConfig contains configuration for the source poller.
type PollerConfig struct {
	// Disabled turns the poller off entirely.
	// Default: false
	Disabled bool `yaml:"disabled"`

	// TargetURL is the base URL of the polled service. Scheme and host are
	// required. It is validated by the poller when it starts, not by
	// Validate, so a bad value only disables polling.
	// Environment: TARGET_URL
	TargetURL string `yaml:"target_url"`

	// Interval is the delay between the end of one cycle and the start of
	// the next.
	// Default: 30s
	Interval time.Duration `yaml:"interval"`

	// FetchTimeout bounds each individual source fetch within a cycle.
	// Default: 10s
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Schedule is an optional cron expression. When set, cycles run on the
	// schedule instead of the fixed delay.
	// Example: "*/1 * * * *", "@every 15s"
	Schedule string `yaml:"schedule"`

	// IdleConnTimeout is how long idle keep-alive connections to the target
	// stay in the pool.
	// Default: 30s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// MetricsConfig contains metric registry and exposition configuration.
type MetricsConfig struct {
	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Buckets are histogram bucket rules evaluated in order, before the
	// built-in rule for http_requests_duration_seconds.
	Buckets []BucketRuleConfig `yaml:"buckets"`

	// DefaultBuckets are used for histograms no rule matches.
	// Default: prometheus.DefBuckets
	DefaultBuckets []float64 `yaml:"default_buckets"`
}

// BucketRuleConfig binds histogram boundaries to metric names.
type BucketRuleConfig struct {
	// Match is the match kind: "full", "prefix" or "suffix".
	Match string `yaml:"match"`

	// Pattern is compared against the metric name.
	Pattern string `yaml:"pattern"`

	// Buckets are strictly ascending upper bounds.
	Buckets []float64 `yaml:"buckets"`
}

// DatabaseConfig contains configuration for the optional database route.
type DatabaseConfig struct {
	// URL is the SQLite data source name. An empty value disables the
	// database route.
	// Environment: DATABASE_URL
	// Example: "file:pulse.db?cache=shared"
	URL string `yaml:"url"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 5
	MaxOpenConns int `yaml:"max_open_conns"`

	// ConnectTimeout bounds the initial connectivity check.
	// Default: 3s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for span exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service name in traces.
	// Default: "pulse"
	ServiceName string `yaml:"service_name"`
}
