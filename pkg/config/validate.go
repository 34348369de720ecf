package config

import (
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
//
// poller.target_url is deliberately not checked here: a missing or malformed
// target disables polling at startup but never prevents the server from
// serving.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validatePoller(&cfg.Poller)...)
	errs = append(errs, validateMetrics(&cfg.Metrics)...)
	errs = append(errs, validateDatabase(&cfg.Database)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	// Validate listen address is not empty
	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address: %v", err),
		})
	}

	// Validate timeouts are positive
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.SlowDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "server.slow_delay",
			Message: "slow delay must be positive",
		})
	}
	if cfg.WriteTimeout > 0 && cfg.SlowDelay >= cfg.WriteTimeout {
		errs = append(errs, FieldError{
			Field:   "server.slow_delay",
			Message: "slow delay must be shorter than write timeout",
		})
	}

	// Validate max header bytes is reasonable
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 { // 10MB is excessive
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}

	return errs
}

// validatePoller validates poller configuration.
func validatePoller(cfg *PollerConfig) []FieldError {
	var errs []FieldError

	if cfg.Interval <= 0 {
		errs = append(errs, FieldError{
			Field:   "poller.interval",
			Message: "interval must be positive",
		})
	}
	if cfg.FetchTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "poller.fetch_timeout",
			Message: "fetch timeout must be positive",
		})
	}
	if cfg.IdleConnTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "poller.idle_conn_timeout",
			Message: "idle connection timeout must be non-negative",
		})
	}
	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "poller.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
			})
		}
	}

	return errs
}

// validateMetrics validates metrics configuration.
func validateMetrics(cfg *MetricsConfig) []FieldError {
	var errs []FieldError

	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "metrics.path",
			Message: "metrics path is required",
		})
	} else if cfg.Path[0] != '/' {
		errs = append(errs, FieldError{
			Field:   "metrics.path",
			Message: "metrics path must start with /",
		})
	}

	validMatches := map[string]bool{"full": true, "prefix": true, "suffix": true}
	for i, rule := range cfg.Buckets {
		prefix := fmt.Sprintf("metrics.buckets[%d]", i)

		if !validMatches[rule.Match] {
			errs = append(errs, FieldError{
				Field:   prefix + ".match",
				Message: fmt.Sprintf("invalid match %q: must be 'full', 'prefix', or 'suffix'", rule.Match),
			})
		}
		if rule.Pattern == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".pattern",
				Message: "pattern is required",
			})
		}
		if msg := checkBounds(rule.Buckets); msg != "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".buckets",
				Message: msg,
			})
		}
	}

	if len(cfg.DefaultBuckets) > 0 {
		if msg := checkBounds(cfg.DefaultBuckets); msg != "" {
			errs = append(errs, FieldError{
				Field:   "metrics.default_buckets",
				Message: msg,
			})
		}
	}

	return errs
}

// checkBounds returns a message describing why bounds are not a valid
// histogram layout, or "" if they are.
func checkBounds(bounds []float64) string {
	if len(bounds) == 0 {
		return "at least one bucket bound is required"
	}
	for i, b := range bounds {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return fmt.Sprintf("bound %d is not finite", i)
		}
		if i > 0 && b <= bounds[i-1] {
			return "bounds must be strictly ascending"
		}
	}
	return ""
}

// validateDatabase validates database configuration.
func validateDatabase(cfg *DatabaseConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxOpenConns < 1 {
		errs = append(errs, FieldError{
			Field:   "database.max_open_conns",
			Message: "max open connections must be at least 1",
		})
	}
	if cfg.ConnectTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "database.connect_timeout",
			Message: "connect timeout must be positive",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	// Validate tracing configuration
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	if cfg.Tracing.Timeout > 60*time.Second {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.timeout",
			Message: "export timeout exceeds reasonable limit (60s)",
		})
	}

	return errs
}
