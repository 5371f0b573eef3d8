package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pigspec/internal/testutil"
)

// execLastArg makes the fake pig run its final argument, the script, as a
// shell script.
const execLastArg = "for last; do :; done\nexec /bin/sh \"$last\"\n"

const copySuite = `name: wc
cases:
  - name: copies
    script: copy.pig
    inputs: {in.txt: "a\nb\n"}
    outputs: {out.txt: "a\nb\n"}
`

const failingSuite = `name: wc
cases:
  - name: copies
    script: copy.pig
    inputs: {in.txt: "a\nb\n"}
    outputs: {out.txt: "a\nb\n"}
  - name: expects more
    script: copy.pig
    inputs: {in.txt: "a\nb\n"}
    outputs: {out.txt: "a\nc\n"}
`

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// setupSuite writes a suite and its copy.pig script into a temp dir and
// installs a fake pig that runs the script.
func setupSuite(t *testing.T, content string) string {
	t.Helper()
	testutil.FakePig(t, execLastArg)

	dir := t.TempDir()
	writeFile(t, dir, "copy.pig", "cp in.txt out.txt\n")
	return writeFile(t, dir, "suite.yaml", content)
}

// execute runs cmd with args and returns captured stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
