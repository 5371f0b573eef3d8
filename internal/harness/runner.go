package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// RunScript builds the command line for script and runs it in the work
// directory. See RunCommandLine.
func (h *Harness) RunScript(ctx context.Context, binary, script string, params Params) error {
	return h.RunCommandLine(ctx, BuildCommandLine(binary, script, params))
}

// RunCommandLine runs line through the harness shell with the work directory
// as the subprocess working directory, waits for it, and records its exit
// status. The parent process directory is never changed.
//
// A non-zero exit is written to the diagnostic stream and is not an error.
// The returned error covers a missing work directory, a command that could
// not be started, and ctx cancellation.
func (h *Harness) RunCommandLine(ctx context.Context, line string) error {
	fmt.Fprintf(h.stdout, "Running the following command: %s\n", line)
	h.commandLine = line

	if h.inputDir == "" {
		return errors.New("run script: no work directory for this invocation")
	}
	info, err := os.Stat(h.inputDir)
	if err != nil {
		return fmt.Errorf("run script: enter work dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("run script: work dir %s is not a directory", h.inputDir)
	}

	args := make([]string, 0, len(h.shell))
	args = append(args, h.shell[1:]...)
	args = append(args, line)

	cmd := exec.CommandContext(ctx, h.shell[0], args...)
	cmd.Dir = h.inputDir
	cmd.Stdin = h.procStdin
	cmd.Stdout = h.procStdout
	cmd.Stderr = h.procStderr
	if len(h.env) > 0 {
		cmd.Env = append(os.Environ(), h.env...)
	}

	runErr := cmd.Run()
	code, startErr := exitCodeFromError(runErr)
	if startErr != nil {
		return fmt.Errorf("run script: %w", startErr)
	}
	h.exitCode = code

	h.logger.Info("subprocess exited",
		"command", line,
		"dir", h.inputDir,
		"exit_code", code,
	)

	if code != 0 {
		fmt.Fprintf(h.stderr, "Pig script exited with non-zero exit code: %d.\n", code)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}

// exitCodeFromError extracts the exit status from cmd.Run's error.
// Processes killed by a signal report -1.
func exitCodeFromError(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
