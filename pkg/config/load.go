package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read without the PULSE_ prefix. They keep the names
// operators already use for the polled service and the database.
const (
	EnvTargetURL   = "TARGET_URL"
	EnvDatabaseURL = "DATABASE_URL"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Validate
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults. It does not
// validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention PULSE_SECTION_FIELD (e.g., PULSE_SERVER_LISTEN_ADDRESS), plus
// the bare TARGET_URL and DATABASE_URL.
// Environment variables always take precedence over file-based configuration.
//
// An empty path, or a path that does not exist, yields the defaults with
// environment overrides applied. Pulse runs without any configuration file.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := loadOrDefault(path)
	if err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate after overrides
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func loadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format PULSE_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("PULSE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("PULSE_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("PULSE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("PULSE_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("PULSE_SERVER_SLOW_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.SlowDelay = d
		}
	}

	// Poller overrides
	if val := os.Getenv(EnvTargetURL); val != "" {
		cfg.Poller.TargetURL = val
	}
	if val := os.Getenv("PULSE_POLLER_DISABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Poller.Disabled = b
		}
	}
	if val := os.Getenv("PULSE_POLLER_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Poller.Interval = d
		}
	}
	if val := os.Getenv("PULSE_POLLER_FETCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Poller.FetchTimeout = d
		}
	}
	if val := os.Getenv("PULSE_POLLER_SCHEDULE"); val != "" {
		cfg.Poller.Schedule = val
	}

	// Metrics overrides
	if val := os.Getenv("PULSE_METRICS_PATH"); val != "" {
		cfg.Metrics.Path = val
	}

	// Database overrides
	if val := os.Getenv(EnvDatabaseURL); val != "" {
		cfg.Database.URL = val
	}
	if val := os.Getenv("PULSE_DATABASE_MAX_OPEN_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Database.MaxOpenConns = i
		}
	}
	if val := os.Getenv("PULSE_DATABASE_CONNECT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Database.ConnectTimeout = d
		}
	}

	// Telemetry overrides
	if val := os.Getenv("PULSE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("PULSE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("PULSE_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("PULSE_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("PULSE_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
