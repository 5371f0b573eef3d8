package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordHistory runs the failing suite with --history and returns the
// database path.
func recordHistory(t *testing.T) string {
	t.Helper()
	suitePath := setupSuite(t, failingSuite)
	db := filepath.Join(t.TempDir(), "runs.db")

	_, _, err := execute(NewTestCommand(&RootOptions{Format: "text"}), suitePath, "--work-dir", t.TempDir(), "--history", db)
	require.Error(t, err)
	return db
}

func listRuns(t *testing.T, db string, args ...string) HistoryResult {
	t.Helper()
	stdout, _, err := execute(NewHistoryCommand(&RootOptions{Format: "json"}), append([]string{"--history", db}, args...)...)
	require.NoError(t, err)

	var resp struct {
		Data HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	return resp.Data
}

func TestHistoryListText(t *testing.T) {
	db := recordHistory(t)

	stdout, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--history", db)
	require.NoError(t, err)

	assert.Contains(t, stdout, "SEQ")
	assert.Contains(t, stdout, "RUN ID")
	assert.Contains(t, stdout, "copies")
	assert.Contains(t, stdout, "expects more")
	assert.Contains(t, stdout, "pass")
	assert.Contains(t, stdout, "fail")
}

func TestHistoryListFilters(t *testing.T) {
	db := recordHistory(t)

	failed := listRuns(t, db, "--failed")
	require.Len(t, failed.Runs, 1)
	assert.Equal(t, "expects more", failed.Runs[0].Case)

	byCase := listRuns(t, db, "--case", "copies")
	require.Len(t, byCase.Runs, 1)
	assert.True(t, byCase.Runs[0].Passed)

	latest := listRuns(t, db, "--limit", "1")
	require.Len(t, latest.Runs, 1)
	assert.Equal(t, "expects more", latest.Runs[0].Case)

	none := listRuns(t, db, "--suite", "other")
	assert.Empty(t, none.Runs)
}

func TestHistoryListEmpty(t *testing.T) {
	db := recordHistory(t)

	stdout, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--history", db, "--suite", "other")
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", stdout)
}

func TestHistoryShow(t *testing.T) {
	db := recordHistory(t)
	failed := listRuns(t, db, "--failed")
	require.Len(t, failed.Runs, 1)
	id := failed.Runs[0].ID

	stdout, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "show", id, "--history", db)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Run "+id+" (fail)")
	assert.Contains(t, stdout, "  case:        expects more")
	assert.Contains(t, stdout, "  test number: 2")
	assert.Contains(t, stdout, "Mismatch detected in 'out.txt':\n\tExpected line: 'c'\n\tActual line:   'b'\n")
}

func TestHistoryShowNotFound(t *testing.T) {
	db := recordHistory(t)

	stdout, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "show", "no-such-run", "--history", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E301]")
}

func TestHistoryNoDatabase(t *testing.T) {
	_, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	missing := filepath.Join(t.TempDir(), "missing.db")
	stdout, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--history", missing)
	require.Error(t, err)
	assert.Contains(t, stdout, "history database not found")
}

func TestHistoryNegativeLimit(t *testing.T) {
	db := recordHistory(t)

	_, _, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--history", db, "--limit", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
