package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/pulse/pkg/cli"
	"mercator-hq/pulse/pkg/config"
	"mercator-hq/pulse/pkg/poller"
)

var validateFlags struct {
	print  bool
	format string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file with environment overrides and validate it.

The poller target is checked too. A missing or malformed target is reported
as a warning because the server still runs without polling. Credentials in
the database URL are masked when the configuration is printed.

Examples:
  # Validate the default config file
  pulse validate

  # Validate and print the effective configuration as JSON
  pulse validate --config pulse.yaml --print --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateConfig(cmd.OutOrStdout(), cfgFile)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.print, "print", false, "print the effective configuration")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "yaml", "output format for --print: yaml, json, text")
}

func validateConfig(w io.Writer, path string) error {
	format, err := cli.ParseOutputFormat(validateFlags.format)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return cli.WrapConfigError(err)
	}

	if !cfg.Poller.Disabled {
		if _, err := poller.ParseTarget(cfg.Poller.TargetURL); err != nil {
			fmt.Fprintf(w, "⚠ poller.target_url: %v (polling will be disabled)\n", err)
		}
	}
	fmt.Fprintln(w, "✓ Configuration valid")

	if validateFlags.print {
		if err := cli.NewFormatter(format).FormatTo(w, cfg.Redacted()); err != nil {
			return cli.NewCommandError("validate", err)
		}
	}
	return nil
}
