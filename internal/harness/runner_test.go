package harness

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withWorkDir points h at a fresh existing directory.
func withWorkDir(t *testing.T, h *Harness) string {
	t.Helper()
	h.inputDir = t.TempDir()
	return h.inputDir
}

func TestRunCommandLine_PrintsCommand(t *testing.T) {
	h, stdout, _ := newTestHarness(t)
	withWorkDir(t, h)

	require.NoError(t, h.RunCommandLine(context.Background(), "true"))

	assert.Equal(t, "Running the following command: true\n", stdout.String())
	assert.Equal(t, "true", h.CommandLine())
}

func TestRunCommandLine_RunsInWorkDir(t *testing.T) {
	h, _, _ := newTestHarness(t)
	dir := withWorkDir(t, h)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	require.NoError(t, h.RunCommandLine(context.Background(), `echo "unique_123" > temp.txt`))

	data, err := os.ReadFile(filepath.Join(dir, "temp.txt"))
	require.NoError(t, err)
	assert.Equal(t, "unique_123\n", string(data))

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, after)
}

func TestRunCommandLine_NonZeroExit(t *testing.T) {
	h, _, stderr := newTestHarness(t)
	withWorkDir(t, h)

	assert.Equal(t, 0, h.ExitCode())
	require.NoError(t, h.RunCommandLine(context.Background(), "false"))

	assert.Equal(t, 1, h.ExitCode())
	assert.Equal(t, "Pig script exited with non-zero exit code: 1.\n", stderr.String())
}

func TestRunCommandLine_FailureKeepsParentDir(t *testing.T) {
	h, _, _ := newTestHarness(t)
	withWorkDir(t, h)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	require.NoError(t, h.RunCommandLine(context.Background(), "cd / && exit 7"))
	assert.Equal(t, 7, h.ExitCode())

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, after)
}

func TestRunCommandLine_MissingWorkDir(t *testing.T) {
	h, _, _ := newTestHarness(t)

	err := h.RunCommandLine(context.Background(), "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no work directory")

	h.inputDir = filepath.Join(t.TempDir(), "missing")
	err = h.RunCommandLine(context.Background(), "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enter work dir")
}

func TestRunCommandLine_ShellNotFound(t *testing.T) {
	h, _, _ := newTestHarness(t, WithShell(filepath.Join(t.TempDir(), "no-such-shell"), "-c"))
	withWorkDir(t, h)

	err := h.RunCommandLine(context.Background(), "true")
	require.Error(t, err)
	assert.Equal(t, 0, h.ExitCode())
}

func TestRunCommandLine_ExtraEnv(t *testing.T) {
	h, _, _ := newTestHarness(t, WithEnv("PIGSPEC_TEST_VAR=hello"))
	dir := withWorkDir(t, h)

	require.NoError(t, h.RunCommandLine(context.Background(), `printf '%s' "$PIGSPEC_TEST_VAR" > env.txt`))

	data, err := os.ReadFile(filepath.Join(dir, "env.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Empty(t, os.Getenv("PIGSPEC_TEST_VAR"))
}

func TestRunCommandLine_SubprocessOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	h, _, _ := newTestHarness(t, WithSubprocessOutput(&out, &errOut))
	withWorkDir(t, h)

	require.NoError(t, h.RunCommandLine(context.Background(), "echo to-stdout; echo to-stderr >&2"))

	assert.Equal(t, "to-stdout\n", out.String())
	assert.Equal(t, "to-stderr\n", errOut.String())
}

func TestRunCommandLine_ContextCanceled(t *testing.T) {
	h, _, _ := newTestHarness(t, WithSubprocessOutput(nil, nil))
	withWorkDir(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := h.RunCommandLine(ctx, "sleep 5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
