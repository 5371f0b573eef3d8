package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/roach88/pigspec/internal/config"
	"github.com/roach88/pigspec/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Suite  string
	Case   string
	Failed bool
	Limit  int
}

// HistoryResult is the JSON payload of the history command.
type HistoryResult struct {
	Runs []store.Run `json:"runs"`
}

// NewHistoryCommand creates the history command and its show subcommand.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded by "pigspec test --history".

Runs are listed oldest first. --limit keeps the most recent N.

Examples:
  pigspec history --history runs.db
  pigspec history --history runs.db --suite wordcount --failed
  pigspec history show 0190a7e4-... --history runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(opts, cmd)
		},
	}

	cmd.PersistentFlags().String("history", "", "SQLite run history database")
	cmd.Flags().StringVar(&opts.Suite, "suite", "", "only runs of this suite")
	cmd.Flags().StringVar(&opts.Case, "case", "", "only runs of this case")
	cmd.Flags().BoolVar(&opts.Failed, "failed", false, "only failed runs")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "keep only the most recent N runs (0 = all)")

	cmd.AddCommand(newHistoryShowCommand(rootOpts))
	return cmd
}

func newHistoryShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one recorded run with its mismatches",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(rootOpts, args[0], cmd)
		},
	}
}

// openHistory opens an existing history database.
func openHistory(formatter *OutputFormatter, cfg *config.Config) (*store.Store, error) {
	if cfg.HistoryDB == "" {
		_ = formatter.Error(ErrCodeHistory, "no history database: set --history or history_db", nil)
		return nil, NewExitError(ExitCommandError, "no history database")
	}
	if _, err := os.Stat(cfg.HistoryDB); os.IsNotExist(err) {
		msg := fmt.Sprintf("history database not found: %s", cfg.HistoryDB)
		_ = formatter.Error(ErrCodeHistory, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(cfg.HistoryDB)
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "open history", err)
	}
	return st, nil
}

func runHistoryList(opts *HistoryOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	formatter := newFormatter(opts.RootOptions, cfg, cmd)

	if opts.Limit < 0 {
		_ = formatter.Error(ErrCodeConfig, "--limit must not be negative", nil)
		return NewExitError(ExitCommandError, "invalid limit")
	}

	st, err := openHistory(formatter, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), store.RunFilter{
		Suite:      opts.Suite,
		Case:       opts.Case,
		FailedOnly: opts.Failed,
		Limit:      opts.Limit,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(HistoryResult{Runs: runs})
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			strconv.FormatInt(r.Seq, 10),
			resultLabel(r),
			r.Suite,
			r.Case,
			r.ID,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SEQ", "RESULT", "SUITE", "CASE", "RUN ID").
		Rows(rows...)
	fmt.Fprintln(formatter.Writer, t.String())
	return nil
}

func runHistoryShow(opts *RootOptions, id string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return err
	}
	formatter := newFormatter(opts, cfg, cmd)

	st, err := openHistory(formatter, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.ReadRun(cmd.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeRunNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "show run", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeHistory, err.Error(), nil)
		return WrapExitError(ExitCommandError, "show run", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(run)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (%s)\n", run.ID, resultLabel(run))
	fmt.Fprintf(w, "  suite:       %s\n", run.Suite)
	fmt.Fprintf(w, "  case:        %s\n", run.Case)
	fmt.Fprintf(w, "  test number: %d\n", run.TestNumber)
	fmt.Fprintf(w, "  command:     %s\n", run.Command)
	fmt.Fprintf(w, "  work dir:    %s\n", run.WorkDir)
	fmt.Fprintf(w, "  exit code:   %d\n", run.ExitCode)
	fmt.Fprintf(w, "  fingerprint: %s\n", run.Fingerprint)
	if run.Guard != "" {
		fmt.Fprintf(w, "  guard:       %s\n", run.Guard)
	}
	if run.Error != "" {
		fmt.Fprintf(w, "  error:       %s\n", run.Error)
	}
	for _, m := range run.Mismatches {
		fmt.Fprintf(w, "Mismatch detected in '%s':\n", m.File)
		fmt.Fprintf(w, "\tExpected line: '%s'\n", m.Expected)
		fmt.Fprintf(w, "\tActual line:   '%s'\n", m.Actual)
	}
	return nil
}

func resultLabel(r store.Run) string {
	if r.Passed {
		return "pass"
	}
	return "fail"
}
