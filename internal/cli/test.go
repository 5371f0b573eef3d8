package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pigspec/internal/harness"
	"github.com/roach88/pigspec/internal/report"
	"github.com/roach88/pigspec/internal/store"
	"github.com/roach88/pigspec/internal/suite"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // case filter (glob pattern)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <suite>...",
		Short: "Run test suites",
		Long: `Run every case of the given suite files.

Suites may be YAML (.yaml, .yml), CUE (.cue) or txtar (.txtar). Each case
gets a fresh work directory <work-dir>/pig_test_<n>, numbered across the
whole invocation.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (unreadable suites, bad config, etc.)

Examples:
  pigspec test suites/wordcount.yaml
  pigspec test suites/*.yaml --filter "counts*"
  pigspec test suites/wordcount.yaml --diff --history runs.db
  pigspec test suites/wordcount.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern")
	cmd.Flags().Bool("diff", false, "show a line diff for failed output files")
	cmd.Flags().String("history", "", "record runs in this SQLite database")
	cmd.Flags().String("work-dir", "", "base directory for work directories [default: .]")
	cmd.Flags().String("env-file", "", "pass variables from this .env file to scripts")

	return cmd
}

func runTests(ctx context.Context, opts *TestOptions, paths []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	formatter := newFormatter(opts.RootOptions, cfg, cmd)
	logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, opts.Verbose)

	suites, loadErrs := suite.LoadAll(paths)
	if len(loadErrs) > 0 {
		return outputLoadErrors(formatter, loadErrs)
	}

	env, err := cfg.SubprocessEnv()
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "env file", err)
	}

	session, err := harness.NewSession(harness.SessionOptions{
		BaseDir: cfg.WorkDir,
		Prefix:  cfg.DirPrefix,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "work directory", err)
	}

	var recorder suite.Recorder
	if cfg.HistoryDB != "" {
		st, err := store.Open(cfg.HistoryDB)
		if err != nil {
			_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
			return WrapExitError(ExitCommandError, "open history", err)
		}
		defer st.Close()
		recorder = storeRecorder{store: st}
	}

	runner, err := suite.NewRunner(suite.RunnerOptions{
		Session:  session,
		Harness:  harnessOptions(opts.RootOptions, env, cmd),
		Filter:   opts.Filter,
		Recorder: recorder,
		Logger:   logger,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	var results []suite.CaseResult
	for _, s := range suites {
		formatter.VerboseLog("Running suite %s (%s)", s.Name, s.Path)
		suiteResults, err := runner.Run(ctx, s)
		results = append(results, suiteResults...)
		if err != nil {
			code := ErrCodeHistory
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				code = ErrCodeInterrupted
			}
			_ = formatter.Error(code, err.Error(), nil)
			return WrapExitError(ExitCommandError, fmt.Sprintf("suite %s", s.Name), err)
		}
	}

	summary := report.Summarize(results, report.Options{Diff: cfg.Diff})
	return outputTestSummary(formatter, summary)
}

// harnessOptions routes harness output. The informational stream and the
// script's own output are shown only in verbose mode; mismatch diagnostics
// always go to stderr so stdout stays a clean report.
func harnessOptions(opts *RootOptions, env []string, cmd *cobra.Command) []harness.Option {
	info := io.Discard
	var procOut io.Writer = io.Discard
	if opts.Verbose {
		info = cmd.ErrOrStderr()
		procOut = cmd.ErrOrStderr()
	}
	return []harness.Option{
		harness.WithStreams(info, cmd.ErrOrStderr()),
		harness.WithSubprocessOutput(procOut, procOut),
		harness.WithEnv(env...),
	}
}

func outputTestSummary(formatter *OutputFormatter, summary report.Summary) error {
	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: summary}
		if summary.HasFailures() {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeTestFailed,
				Message: fmt.Sprintf("%d case(s) failed", summary.Failed),
			}
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}
	} else {
		if err := report.WriteText(formatter.Writer, summary, report.TextOptions{Verbose: formatter.Verbose}); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		// Case failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", summary.Failed))
	}
	return nil
}

// outputLoadErrors reports suites that could not be loaded.
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	details := make([]string, 0, len(errs))
	for _, err := range errs {
		details = append(details, err.Error())
	}

	code := ErrCodeInvalidSuite
	var loadErr *suite.LoadError
	if errors.As(errs[0], &loadErr) {
		code = loadErr.Code
	}

	if formatter.Format == "json" {
		_ = formatter.Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: fmt.Sprintf("%d suite(s) failed to load", len(errs)),
				Details: details,
			},
		})
	} else {
		for _, d := range details {
			fmt.Fprintf(formatter.Writer, "✗ %s\n", d)
		}
	}
	return WrapExitError(ExitCommandError, "failed to load suites", errs[0])
}
