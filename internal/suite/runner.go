package suite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/roach88/pigspec/internal/harness"
	"github.com/roach88/pigspec/internal/sequence"
)

// CaseResult is the outcome of one case.
type CaseResult struct {
	Suite       string
	Case        string
	RunID       string
	Fingerprint string

	TestNumber int64
	Command    string
	WorkDir    string
	ExitCode   int

	// Outputs is the expectation the case was verified against.
	Outputs harness.Files

	// Report is nil if the case failed before verification.
	Report *harness.Report

	// Err is a host failure: work directory, subprocess start or a missing
	// output file. Mismatches are not errors.
	Err error
}

// Passed reports whether the case ran and every expected file matched.
func (r CaseResult) Passed() bool {
	return r.Err == nil && r.Report != nil && r.Report.Pass
}

// Recorder persists case results, e.g. to the run history store.
type Recorder interface {
	RecordRun(ctx context.Context, result CaseResult) error
}

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Session owns the invocation counter and work directory base. Required.
	Session *harness.Session

	// Harness options applied to every case's harness.
	Harness []harness.Option

	// Filter is a path.Match glob on case names. Empty runs every case.
	Filter string

	// Recorder receives every result. Optional.
	Recorder Recorder

	// IDs generates run IDs. Defaults to UUIDv7.
	IDs sequence.IDGenerator

	// Logger defaults to discarding.
	Logger *slog.Logger
}

// Runner runs suites case by case against one session.
type Runner struct {
	session     *harness.Session
	harnessOpts []harness.Option
	filter      string
	recorder    Recorder
	ids         sequence.IDGenerator
	logger      *slog.Logger
}

// NewRunner validates opts and returns a Runner.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Session == nil {
		return nil, errors.New("runner: session is required")
	}
	if opts.Filter != "" {
		if _, err := path.Match(opts.Filter, ""); err != nil {
			return nil, fmt.Errorf("runner: invalid filter %q: %w", opts.Filter, err)
		}
	}

	r := &Runner{
		session:  opts.Session,
		filter:   opts.Filter,
		recorder: opts.Recorder,
		ids:      opts.IDs,
		logger:   opts.Logger,
	}
	if r.ids == nil {
		r.ids = sequence.UUIDv7Generator{}
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.harnessOpts = append([]harness.Option{harness.WithLogger(r.logger)}, opts.Harness...)
	return r, nil
}

// Run executes the suite's cases in order and returns their results.
// A case failure does not stop the run; cancellation and recorder errors do,
// returning the results gathered so far.
func (r *Runner) Run(ctx context.Context, s *Suite) ([]CaseResult, error) {
	results := []CaseResult{}
	for _, c := range s.Cases {
		if !r.matches(c.Name) {
			r.logger.Debug("case skipped", "suite", s.Name, "case", c.Name, "filter", r.filter)
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := r.runCase(ctx, s, c)
		results = append(results, result)

		if r.recorder != nil {
			if err := r.recorder.RecordRun(ctx, result); err != nil {
				return results, fmt.Errorf("record %s/%s: %w", s.Name, c.Name, err)
			}
		}
	}
	return results, nil
}

func (r *Runner) matches(name string) bool {
	if r.filter == "" {
		return true
	}
	ok, _ := path.Match(r.filter, name)
	return ok
}

func (r *Runner) runCase(ctx context.Context, s *Suite, c Case) CaseResult {
	result := CaseResult{
		Suite: s.Name,
		Case:  c.Name,
		RunID: r.ids.Generate(),
	}
	logger := r.logger.With("suite", s.Name, "case", c.Name, "run_id", result.RunID)

	fingerprint, err := c.Fingerprint()
	if err != nil {
		logger.Warn("case fingerprint failed", "error", err)
	}
	result.Fingerprint = fingerprint

	logger.Info("case started")
	h := harness.New(r.session, r.harnessOpts...)

	err = h.TestRaw(ctx, c.Binary, c.ScriptPath(), c.Inputs, c.Outputs, c.Params)
	result.TestNumber = h.TestNumber()
	result.Command = h.CommandLine()
	result.WorkDir = h.InputDir()
	result.ExitCode = h.ExitCode()
	result.Outputs = h.Outputs()
	if err != nil {
		result.Err = err
		logger.Error("case aborted", "error", err)
		return result
	}

	result.Report, result.Err = h.VerifyReport(c.OrderMatters)
	if result.Err != nil {
		logger.Error("verification aborted", "error", result.Err)
		return result
	}
	logger.Info("case finished", "passed", result.Passed(), "test_number", result.TestNumber)
	return result
}
