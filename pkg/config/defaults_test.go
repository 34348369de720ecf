package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name  string
		input Config
		check func(*testing.T, *Config)
	}{
		{
			name:  "empty config gets all defaults",
			input: Config{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.ListenAddress != DefaultListenAddress {
					t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
				}
				if cfg.Server.ReadTimeout != DefaultReadTimeout {
					t.Errorf("expected read timeout %v, got %v", DefaultReadTimeout, cfg.Server.ReadTimeout)
				}
				if cfg.Server.WriteTimeout != DefaultWriteTimeout {
					t.Errorf("expected write timeout %v, got %v", DefaultWriteTimeout, cfg.Server.WriteTimeout)
				}
				if cfg.Server.SlowDelay != 3*time.Second {
					t.Errorf("expected slow delay %v, got %v", 3*time.Second, cfg.Server.SlowDelay)
				}
				if cfg.Poller.Interval != 30*time.Second {
					t.Errorf("expected poll interval %v, got %v", 30*time.Second, cfg.Poller.Interval)
				}
				if cfg.Poller.FetchTimeout != DefaultPollFetchTimeout {
					t.Errorf("expected fetch timeout %v, got %v", DefaultPollFetchTimeout, cfg.Poller.FetchTimeout)
				}
				if cfg.Poller.IdleConnTimeout != 30*time.Second {
					t.Errorf("expected idle conn timeout %v, got %v", 30*time.Second, cfg.Poller.IdleConnTimeout)
				}
				if cfg.Metrics.Path != DefaultPrometheusPath {
					t.Errorf("expected prometheus path %q, got %q", DefaultPrometheusPath, cfg.Metrics.Path)
				}
				if cfg.Database.MaxOpenConns != 5 {
					t.Errorf("expected max open conns 5, got %d", cfg.Database.MaxOpenConns)
				}
				if cfg.Database.ConnectTimeout != 3*time.Second {
					t.Errorf("expected connect timeout %v, got %v", 3*time.Second, cfg.Database.ConnectTimeout)
				}
				if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
					t.Errorf("expected logging level %q, got %q", DefaultLoggingLevel, cfg.Telemetry.Logging.Level)
				}
				if cfg.Telemetry.Logging.Format != DefaultLoggingFormat {
					t.Errorf("expected logging format %q, got %q", DefaultLoggingFormat, cfg.Telemetry.Logging.Format)
				}
				if cfg.Telemetry.Tracing.ServiceName != "pulse" {
					t.Errorf("expected service name %q, got %q", "pulse", cfg.Telemetry.Tracing.ServiceName)
				}
			},
		},
		{
			name: "existing values are preserved",
			input: Config{
				Server: ServerConfig{
					ListenAddress: "0.0.0.0:9100",
					SlowDelay:     50 * time.Millisecond,
				},
				Poller: PollerConfig{
					TargetURL: "http://sensors.local",
					Interval:  5 * time.Second,
				},
				Telemetry: TelemetryConfig{
					Logging: LoggingConfig{Level: "debug"},
				},
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.ListenAddress != "0.0.0.0:9100" {
					t.Errorf("expected listen address to be preserved, got %q", cfg.Server.ListenAddress)
				}
				if cfg.Server.SlowDelay != 50*time.Millisecond {
					t.Errorf("expected slow delay to be preserved, got %v", cfg.Server.SlowDelay)
				}
				if cfg.Poller.TargetURL != "http://sensors.local" {
					t.Errorf("expected target url to be preserved, got %q", cfg.Poller.TargetURL)
				}
				if cfg.Poller.Interval != 5*time.Second {
					t.Errorf("expected interval to be preserved, got %v", cfg.Poller.Interval)
				}
				if cfg.Telemetry.Logging.Level != "debug" {
					t.Errorf("expected logging level to be preserved, got %q", cfg.Telemetry.Logging.Level)
				}
				// Unset fields still receive defaults
				if cfg.Poller.FetchTimeout != DefaultPollFetchTimeout {
					t.Errorf("expected default fetch timeout, got %v", cfg.Poller.FetchTimeout)
				}
			},
		},
		{
			name:  "target url and database url have no default",
			input: Config{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Poller.TargetURL != "" {
					t.Errorf("expected empty target url, got %q", cfg.Poller.TargetURL)
				}
				if cfg.Database.URL != "" {
					t.Errorf("expected empty database url, got %q", cfg.Database.URL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			ApplyDefaults(&cfg)
			tt.check(t, &cfg)
		})
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := Config{}

	// Apply defaults twice
	ApplyDefaults(&cfg)
	first := cfg

	ApplyDefaults(&cfg)

	if first.Server != cfg.Server || first.Poller != cfg.Poller {
		t.Error("ApplyDefaults should be idempotent")
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("expected defaults to pass validation, got: %v", err)
	}
}
