package config

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestValidate_ValidConfig(t *testing.T) {
	cfg := Default()

	if err := Validate(cfg); err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	// A zero Config has no listen address, no interval and no logging level.
	cfg := &Config{}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	validationErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	if len(validationErr.Errors) < 2 {
		t.Errorf("expected multiple errors, got %d", len(validationErr.Errors))
	}

	errMsg := validationErr.Error()
	if !strings.Contains(errMsg, "validation failed with") {
		t.Errorf("error message should mention multiple errors: %s", errMsg)
	}
}

func hasField(errs []FieldError, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestValidate_ServerConfig(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*ServerConfig)
		wantError  bool
		errorField string
	}{
		{
			name:   "valid server config",
			modify: func(*ServerConfig) {},
		},
		{
			name:       "empty listen address",
			modify:     func(s *ServerConfig) { s.ListenAddress = "" },
			wantError:  true,
			errorField: "server.listen_address",
		},
		{
			name:       "listen address without port",
			modify:     func(s *ServerConfig) { s.ListenAddress = "localhost" },
			wantError:  true,
			errorField: "server.listen_address",
		},
		{
			name:       "negative read timeout",
			modify:     func(s *ServerConfig) { s.ReadTimeout = -1 * time.Second },
			wantError:  true,
			errorField: "server.read_timeout",
		},
		{
			name:       "slow delay exceeds write timeout",
			modify:     func(s *ServerConfig) { s.SlowDelay = time.Minute },
			wantError:  true,
			errorField: "server.slow_delay",
		},
		{
			name:       "excessive max header bytes",
			modify:     func(s *ServerConfig) { s.MaxHeaderBytes = 20 * 1024 * 1024 },
			wantError:  true,
			errorField: "server.max_header_bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default().Server
			tt.modify(&cfg)
			errs := validateServer(&cfg)

			if tt.wantError && len(errs) == 0 {
				t.Error("expected validation error, got none")
			}
			if !tt.wantError && len(errs) > 0 {
				t.Errorf("expected no validation error, got: %v", errs)
			}
			if tt.wantError && !hasField(errs, tt.errorField) {
				t.Errorf("expected error for field %q, got errors: %v", tt.errorField, errs)
			}
		})
	}
}

func TestValidate_Poller(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*PollerConfig)
		wantError  bool
		errorField string
	}{
		{
			name:   "valid poller config",
			modify: func(*PollerConfig) {},
		},
		{
			name:   "malformed target url is not a config error",
			modify: func(p *PollerConfig) { p.TargetURL = "::not a url" },
		},
		{
			name:   "valid cron schedule",
			modify: func(p *PollerConfig) { p.Schedule = "*/5 * * * *" },
		},
		{
			name:   "valid descriptor schedule",
			modify: func(p *PollerConfig) { p.Schedule = "@every 30s" },
		},
		{
			name:       "invalid cron schedule",
			modify:     func(p *PollerConfig) { p.Schedule = "every minute" },
			wantError:  true,
			errorField: "poller.schedule",
		},
		{
			name:       "zero interval",
			modify:     func(p *PollerConfig) { p.Interval = 0 },
			wantError:  true,
			errorField: "poller.interval",
		},
		{
			name:       "negative fetch timeout",
			modify:     func(p *PollerConfig) { p.FetchTimeout = -time.Second },
			wantError:  true,
			errorField: "poller.fetch_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default().Poller
			tt.modify(&cfg)
			errs := validatePoller(&cfg)

			if tt.wantError && len(errs) == 0 {
				t.Error("expected validation error, got none")
			}
			if !tt.wantError && len(errs) > 0 {
				t.Errorf("expected no validation error, got: %v", errs)
			}
			if tt.wantError && !hasField(errs, tt.errorField) {
				t.Errorf("expected error for field %q, got errors: %v", tt.errorField, errs)
			}
		})
	}
}

func TestValidate_Metrics(t *testing.T) {
	tests := []struct {
		name       string
		metrics    MetricsConfig
		wantError  bool
		errorField string
	}{
		{
			name:    "defaults",
			metrics: MetricsConfig{Path: "/metrics"},
		},
		{
			name: "valid rules",
			metrics: MetricsConfig{
				Path: "/metrics",
				Buckets: []BucketRuleConfig{
					{Match: "full", Pattern: "weather_fetch_seconds", Buckets: []float64{0.1, 1}},
					{Match: "suffix", Pattern: "_seconds", Buckets: []float64{1, 10}},
				},
				DefaultBuckets: []float64{0.5, 1, 5},
			},
		},
		{
			name:       "path without slash",
			metrics:    MetricsConfig{Path: "metrics"},
			wantError:  true,
			errorField: "metrics.path",
		},
		{
			name: "unknown match kind",
			metrics: MetricsConfig{
				Path:    "/metrics",
				Buckets: []BucketRuleConfig{{Match: "glob", Pattern: "x", Buckets: []float64{1}}},
			},
			wantError:  true,
			errorField: "metrics.buckets[0].match",
		},
		{
			name: "empty pattern",
			metrics: MetricsConfig{
				Path:    "/metrics",
				Buckets: []BucketRuleConfig{{Match: "prefix", Buckets: []float64{1}}},
			},
			wantError:  true,
			errorField: "metrics.buckets[0].pattern",
		},
		{
			name: "descending bounds",
			metrics: MetricsConfig{
				Path:    "/metrics",
				Buckets: []BucketRuleConfig{{Match: "prefix", Pattern: "x", Buckets: []float64{2, 1}}},
			},
			wantError:  true,
			errorField: "metrics.buckets[0].buckets",
		},
		{
			name: "repeated bound",
			metrics: MetricsConfig{
				Path:    "/metrics",
				Buckets: []BucketRuleConfig{{Match: "prefix", Pattern: "x", Buckets: []float64{1, 1}}},
			},
			wantError:  true,
			errorField: "metrics.buckets[0].buckets",
		},
		{
			name: "empty bounds",
			metrics: MetricsConfig{
				Path:    "/metrics",
				Buckets: []BucketRuleConfig{{Match: "prefix", Pattern: "x"}},
			},
			wantError:  true,
			errorField: "metrics.buckets[0].buckets",
		},
		{
			name: "infinite default bound",
			metrics: MetricsConfig{
				Path:           "/metrics",
				DefaultBuckets: []float64{1, math.Inf(1)},
			},
			wantError:  true,
			errorField: "metrics.default_buckets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateMetrics(&tt.metrics)

			if tt.wantError && len(errs) == 0 {
				t.Error("expected validation error, got none")
			}
			if !tt.wantError && len(errs) > 0 {
				t.Errorf("expected no validation error, got: %v", errs)
			}
			if tt.wantError && !hasField(errs, tt.errorField) {
				t.Errorf("expected error for field %q, got errors: %v", tt.errorField, errs)
			}
		})
	}
}

func TestValidate_Database(t *testing.T) {
	cfg := Default().Database
	if errs := validateDatabase(&cfg); len(errs) > 0 {
		t.Errorf("expected no validation error, got: %v", errs)
	}

	cfg.MaxOpenConns = -1
	if errs := validateDatabase(&cfg); !hasField(errs, "database.max_open_conns") {
		t.Errorf("expected error for database.max_open_conns, got: %v", errs)
	}
}

func TestValidate_Telemetry(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*TelemetryConfig)
		wantError  bool
		errorField string
	}{
		{
			name:   "valid telemetry config",
			modify: func(*TelemetryConfig) {},
		},
		{
			name:   "console format",
			modify: func(c *TelemetryConfig) { c.Logging.Format = "console" },
		},
		{
			name:       "invalid logging level",
			modify:     func(c *TelemetryConfig) { c.Logging.Level = "trace" },
			wantError:  true,
			errorField: "telemetry.logging.level",
		},
		{
			name:       "invalid logging format",
			modify:     func(c *TelemetryConfig) { c.Logging.Format = "xml" },
			wantError:  true,
			errorField: "telemetry.logging.format",
		},
		{
			name:       "tracing enabled without endpoint",
			modify:     func(c *TelemetryConfig) { c.Tracing.Enabled = true },
			wantError:  true,
			errorField: "telemetry.tracing.endpoint",
		},
		{
			name:       "sample ratio out of range",
			modify:     func(c *TelemetryConfig) { c.Tracing.SampleRatio = 1.5 },
			wantError:  true,
			errorField: "telemetry.tracing.sample_ratio",
		},
		{
			name:       "unknown sampler",
			modify:     func(c *TelemetryConfig) { c.Tracing.Sampler = "sometimes" },
			wantError:  true,
			errorField: "telemetry.tracing.sampler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default().Telemetry
			tt.modify(&cfg)
			errs := validateTelemetry(&cfg)

			if tt.wantError && len(errs) == 0 {
				t.Error("expected validation error, got none")
			}
			if !tt.wantError && len(errs) > 0 {
				t.Errorf("expected no validation error, got: %v", errs)
			}
			if tt.wantError && !hasField(errs, tt.errorField) {
				t.Errorf("expected error for field %q, got errors: %v", tt.errorField, errs)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		contains string
	}{
		{
			name:     "empty errors",
			err:      ValidationError{Errors: []FieldError{}},
			contains: "configuration validation failed",
		},
		{
			name: "single error",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "server.listen_address", Message: "required"},
				},
			},
			contains: "server.listen_address",
		},
		{
			name: "multiple errors",
			err: ValidationError{
				Errors: []FieldError{
					{Field: "server.listen_address", Message: "required"},
					{Field: "poller.interval", Message: "must be positive"},
				},
			},
			contains: "2 errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			if !strings.Contains(errMsg, tt.contains) {
				t.Errorf("expected error message to contain %q, got: %s", tt.contains, errMsg)
			}
		})
	}
}
