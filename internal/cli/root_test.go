package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pigspec", cmd.Use)
	assert.Contains(t, cmd.Long, "pig scripts")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"test", "validate", "history"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	// Empty defers to the config file and PIGSPEC_FORMAT.
	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "", formatFlag.DefValue)

	for _, name := range []string{"config", "log-level"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestHistoryShowSubcommand(t *testing.T) {
	cmd := NewRootCommand()
	showCmd, _, err := cmd.Find([]string{"history", "show"})
	require.NoError(t, err)
	assert.Equal(t, "show", showCmd.Name())

	// --history is inherited from the history command.
	assert.NotNil(t, showCmd.InheritedFlags().Lookup("history"))
}

func TestRootInvalidFormat(t *testing.T) {
	_, _, err := execute(NewRootCommand(), "validate", "suite.yaml", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestRootRunsSuite(t *testing.T) {
	suitePath := setupSuite(t, copySuite)

	stdout, _, err := execute(NewRootCommand(), "test", suitePath, "--work-dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestRootConfigFile(t *testing.T) {
	suitePath := setupSuite(t, copySuite)
	dir := t.TempDir()
	workDir := t.TempDir()
	cfgPath := writeFile(t, dir, "pigspec.yaml", "work_dir: "+workDir+"\ndir_prefix: case_\nformat: json\n")

	stdout, _, err := execute(NewRootCommand(), "test", suitePath, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"status": "ok"`)
	assert.DirExists(t, filepath.Join(workDir, "case_1"))
}
