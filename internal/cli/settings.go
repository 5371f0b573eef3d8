package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/roach88/pigspec/internal/config"
)

// loadConfig resolves configuration for cmd. Flags the user set override
// the config file and environment; --format given on the root command is
// applied last.
func loadConfig(opts *RootOptions, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		File:  opts.ConfigFile,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	return cfg, nil
}

// newFormatter builds the output formatter for cfg.
func newFormatter(opts *RootOptions, cfg *config.Config, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    cfg.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// newLogger returns a slog logger rendered by charmbracelet/log on w.
// verbose forces debug level.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           lvl,
	})
	return slog.New(handler)
}
