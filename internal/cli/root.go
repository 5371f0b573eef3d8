package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/pigspec/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"; empty defers to config
	ConfigFile string
	LogLevel   string
}

// NewRootCommand creates the root command for the pigspec CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pigspec",
		Short: "pigspec - functional tests for pig scripts",
		Long: `Run declarative test suites against pig scripts.

Each case writes its input fixtures into a fresh work directory, runs the
script with its parameters and compares the files it produced against the
expected output, line by line.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "" && !slices.Contains(config.ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, config.ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (json|text) [default: text]")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file [default: ./pigspec.yaml if present]")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error) [default: info]")

	// Add subcommands
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}
