package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Pulse - Prometheus metrics for a web service and the sensors it polls",
	Long: `Pulse is an HTTP service instrumented with Prometheus metrics.

It provides:
  - Request counters and latency histograms for every route
  - Configurable histogram buckets per metric name
  - Periodic polling of a sensor service, exported as gauges
  - An optional SQLite connection behind /db

Configuration is read from a YAML file and environment variables. Every
setting has a default, so the file is optional.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "pulse.yaml", "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level unless --log-level is given")
}
