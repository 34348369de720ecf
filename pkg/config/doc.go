// Package config provides configuration management for Pulse.
//
// This package handles loading, validating, and reloading configuration from
// YAML files with environment variable overrides. Every field has a default,
// so Pulse runs without any configuration file at all.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("pulse.yaml")
//
//  2. From an optional YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("pulse.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PULSE_SECTION_FIELD.
// For example:
//
//   - PULSE_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - PULSE_POLLER_INTERVAL overrides poller.interval
//   - PULSE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Two variables are read without the prefix:
//
//   - TARGET_URL overrides poller.target_url
//   - DATABASE_URL overrides database.url
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - metrics.buckets[0].buckets: bounds must be strictly ascending
//	  - poller.schedule: invalid cron expression "every minute": ...
//
// The poller target URL is not validated here. A bad target disables
// polling when the poller starts; the HTTP server still serves.
//
// # Reloading
//
// Watcher observes the configuration file with fsnotify and passes each
// successfully reloaded Config to a callback. Pulse uses it to change the
// log level without a restart.
//
// # Example Configuration
//
//	server:
//	  listen_address: "127.0.0.1:9000"
//	  slow_delay: "3s"
//
//	poller:
//	  target_url: "http://sensors.local:8080"
//	  interval: "30s"
//
//	metrics:
//	  buckets:
//	    - match: "prefix"
//	      pattern: "poller_"
//	      buckets: [0.01, 0.05, 0.1, 0.5, 1, 5]
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
