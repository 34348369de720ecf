/*
Package cli provides command-line interface utilities for Pulse.

The cli package includes output formatters, error types and signal handling
used by the pulse command.

Output Formatting:

The cli package supports multiple output formats (text, JSON, YAML) for
displaying command results:

	formatter := cli.NewFormatter(cli.FormatYAML)
	if err := formatter.FormatTo(os.Stdout, cfg); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
