package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/pulse/pkg/cli"
	"mercator-hq/pulse/pkg/config"
	"mercator-hq/pulse/pkg/database"
	"mercator-hq/pulse/pkg/poller"
	"mercator-hq/pulse/pkg/server"
	"mercator-hq/pulse/pkg/server/handlers"
	"mercator-hq/pulse/pkg/telemetry/health"
	"mercator-hq/pulse/pkg/telemetry/logging"
	"mercator-hq/pulse/pkg/telemetry/metrics"
	"mercator-hq/pulse/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Pulse server",
	Long: `Start the Pulse HTTP server and the sensor poller.

The server listens on the configured address and serves /, /fast, /slow,
/metrics and /ready. When a database URL is configured, /db is served too.
The poller fetches the target service on a fixed interval or a cron
schedule. A missing or malformed TARGET_URL disables polling but the
server keeps running.

Examples:
  # Start with default config
  pulse run

  # Start with custom config
  pulse run --config /etc/pulse/pulse.yaml

  # Override listen address
  pulse run --listen 0.0.0.0:9000

  # Validate config without starting server
  pulse run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cfgFile)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	if err := serve(ctx, cfg, logger, watchPath(cfgFile)); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// loadRunConfig loads the configuration file with environment overrides and
// applies the command-line overrides on top.
func loadRunConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, cli.WrapConfigError(err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	switch {
	case runFlags.logLevel != "":
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	case verbose:
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, cli.WrapConfigError(err)
	}
	return cfg, nil
}

// watchPath returns path if it names an existing file, or "" when there is
// nothing to watch.
func watchPath(path string) string {
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}

// serve wires every component together and blocks until ctx is cancelled
// or the server fails. configPath, when set, is watched for log level
// changes.
func serve(ctx context.Context, cfg *config.Config, logger *logging.Logger, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info("starting pulse",
		"version", Version,
		"listen_address", cfg.Server.ListenAddress,
		"config", configPath,
	)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	reg, err := metrics.NewRegistry(&cfg.Metrics, prometheus.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to create metric registry: %w", err)
	}

	checker := health.New(0)

	p, err := poller.New(&cfg.Poller, reg, poller.Options{
		Logger:  logger.Slog(),
		Tracer:  tracer,
		Version: Version,
	})
	if err != nil {
		return fmt.Errorf("failed to create poller: %w", err)
	}
	// A bad target is logged by Start. Polling stays off and the server
	// keeps serving.
	_ = p.Start(ctx)
	defer func() {
		cancel()
		p.Wait()
	}()

	var greeter handlers.Greeter
	if cfg.Database.URL != "" {
		store, err := database.Open(ctx, &cfg.Database)
		if err != nil {
			logger.Error("database unavailable, /db disabled", "error", err)
		} else {
			defer store.Close()
			if err := reg.Register(store.Collector()); err != nil {
				logger.Warn("database metrics not registered", "error", err)
			}
			checker.RegisterCheck("database", store.Ping)
			greeter = store
		}
	}

	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, 0, logger.Slog())
		if err != nil {
			logger.Warn("configuration watcher disabled", "error", err)
		} else {
			defer watcher.Stop()
			go func() {
				err := watcher.Watch(ctx, func(next *config.Config) {
					if err := logger.SetLevel(next.Telemetry.Logging.Level); err != nil {
						logger.Warn("log level not changed", "error", err)
						return
					}
					logger.Info("log level changed", "level", next.Telemetry.Logging.Level)
				})
				if err != nil {
					logger.Warn("configuration watcher stopped", "error", err)
				}
			}()
		}
	}

	srv, err := server.NewServer(&cfg.Server, &cfg.Metrics, server.Options{
		Registry: reg,
		Health:   checker,
		Database: greeter,
		Tracer:   tracer,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	err = srv.Start(ctx)
	cancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("pulse stopped")
	return nil
}
