package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Harness runs one script invocation at a time and verifies its output.
//
// A Harness is not safe for concurrent use. Create one per goroutine; they
// may share a Session, whose counter keeps work directories unique.
type Harness struct {
	session *Session

	stdout io.Writer // informational stream
	stderr io.Writer // diagnostic stream

	procStdout io.Writer
	procStderr io.Writer
	procStdin  io.Reader
	env        []string
	shell      []string

	logger *slog.Logger

	testNumber  int64
	exitCode    int
	inputDir    string
	outputs     Files
	outputsKind string // non-empty when the expectation was not a mapping
	commandLine string
}

// Option configures a Harness.
type Option func(*Harness)

// WithStreams sets the informational and diagnostic streams.
// A nil writer keeps the current one.
func WithStreams(stdout, stderr io.Writer) Option {
	return func(h *Harness) {
		if stdout != nil {
			h.stdout = stdout
		}
		if stderr != nil {
			h.stderr = stderr
		}
	}
}

// WithSubprocessOutput redirects the script's standard output and error,
// which are otherwise inherited from the parent process.
func WithSubprocessOutput(stdout, stderr io.Writer) Option {
	return func(h *Harness) {
		h.procStdout = stdout
		h.procStderr = stderr
	}
}

// WithEnv appends KEY=value entries to the subprocess environment.
func WithEnv(env ...string) Option {
	return func(h *Harness) {
		h.env = append(h.env, env...)
	}
}

// WithShell sets the interpreter used to run command lines.
// The command line is appended as the final argument.
func WithShell(shell ...string) Option {
	return func(h *Harness) {
		if len(shell) > 0 {
			h.shell = shell
		}
	}
}

// WithLogger sets the structured logger. Defaults to discarding.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a harness bound to session, which must not be nil.
func New(session *Session, opts ...Option) *Harness {
	h := &Harness{
		session:    session,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		procStdout: os.Stdout,
		procStderr: os.Stderr,
		procStdin:  os.Stdin,
		shell:      []string{"/bin/sh", "-c"},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Test runs script against inputs and records outputs as the expectation
// for a later Verify. The session counter advances exactly once, whatever
// the outcome.
//
// A non-zero script exit is reported on the diagnostic stream and recorded,
// not returned. Errors are reserved for host failures: the work directory
// cannot be prepared or the command cannot be started.
func (h *Harness) Test(ctx context.Context, binary, script string, inputs, outputs Files, params Params) error {
	return h.TestRaw(ctx, binary, script, inputs, outputs, params)
}

// TestRaw is Test for untyped data, e.g. decoded from a suite file.
//
// inputs, outputs and params must be mappings (Files, Params, map[string]any
// or map[string]string). Any other shape is reported on the diagnostic
// stream by the phase that consumes it: inputs are not written, params are
// dropped from the command line, and Verify fails on the outputs guard.
func (h *Harness) TestRaw(ctx context.Context, binary, script string, inputs, outputs, params any) error {
	n := h.begin()
	h.logger.Debug("test invocation started", "test_number", n, "script", script)

	// Replaced before setup: a failed setup must not leave the previous
	// invocation's outputs as the expectation.
	if files, kind, ok := filesOf(outputs); ok {
		h.outputs = files
		h.outputsKind = ""
	} else {
		h.outputs = nil
		h.outputsKind = kind
	}

	if err := h.writeInputsRaw(inputs); err != nil {
		return err
	}

	p, kind, ok := paramsOf(params)
	if !ok {
		fmt.Fprintf(h.stderr, "Params had unexpected class: %s\n", kind)
	}
	return h.RunScript(ctx, binary, script, p)
}

// begin starts a new invocation: it takes the next session number and
// resets the per-invocation state.
func (h *Harness) begin() int64 {
	h.testNumber = h.session.next()
	h.exitCode = 0
	h.commandLine = ""
	h.inputDir = h.session.workDir(h.testNumber)
	return h.testNumber
}

// SetOutputs replaces the expected outputs used by Verify.
func (h *Harness) SetOutputs(outputs Files) {
	h.outputs = outputs
	h.outputsKind = ""
}

// InputDir returns the work directory of the current invocation.
func (h *Harness) InputDir() string {
	return h.inputDir
}

// ExitCode returns the exit status of the last script run.
// Only meaningful after a run completes; 0 before.
func (h *Harness) ExitCode() int {
	return h.exitCode
}

// TestNumber returns the number of this harness's latest invocation, the
// suffix of InputDir. It is 0 before the first Test.
func (h *Harness) TestNumber() int64 {
	return h.testNumber
}

// Outputs returns the stored expected outputs.
func (h *Harness) Outputs() Files {
	return h.outputs
}

// CommandLine returns the last command line the harness ran.
func (h *Harness) CommandLine() string {
	return h.commandLine
}
