package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validateResponse is CLIResponse with a typed payload.
type validateResponse struct {
	Status string           `json:"status"`
	Data   ValidationResult `json:"data"`
	Error  *CLIError        `json:"error"`
}

var suiteTestdata = filepath.Join("..", "suite", "testdata")

func TestValidateValidSuites(t *testing.T) {
	paths := []string{
		filepath.Join(suiteTestdata, "sort.yaml"),
		filepath.Join(suiteTestdata, "sort.cue"),
		filepath.Join(suiteTestdata, "sort.txtar"),
	}

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), paths...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ "+paths[0]+" (yaml, 2 case(s))")
	assert.Contains(t, stdout, "✓ "+paths[1]+" (cue,")
	assert.Contains(t, stdout, "✓ "+paths[2]+" (txtar,")
	assert.Contains(t, stdout, "✓ All suites valid")
	assert.NotContains(t, stdout, "!")
}

func TestValidateValidSuitesJSON(t *testing.T) {
	path := filepath.Join(suiteTestdata, "sort.yaml")

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "json"}), path)
	require.NoError(t, err)

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	require.Len(t, resp.Data.Suites, 1)

	s := resp.Data.Suites[0]
	assert.Equal(t, "sort", s.Name)
	require.Len(t, s.Cases, 2)
	assert.Equal(t, "sorts lines", s.Cases[0].Name)
	assert.Equal(t, "sort.pig", s.Cases[0].Script)
	assert.Len(t, s.Cases[0].Fingerprint, 64)
	assert.NotEqual(t, s.Cases[0].Fingerprint, s.Cases[1].Fingerprint)
}

func TestValidateShapeWarnings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "odd.yaml", `name: odd
cases:
  - name: list outputs
    script: run.pig
    outputs: [a, b]
`)

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "  ! list outputs: Expected hash of expected output with (filename, file content) pairs. Unexpected class: list")
	assert.Contains(t, stdout, "✓ All suites valid")
}

func TestValidateLoadErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(suiteTestdata, "sort.yaml")
	bad := writeFile(t, dir, "bad.yaml", "name: bad\ncases: []\n")
	missing := filepath.Join(dir, "missing.yaml")

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}), good, bad, missing)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 error(s)")

	assert.Contains(t, stdout, "✓ "+good)
	assert.Contains(t, stdout, "✗ "+bad)
	assert.Contains(t, stdout, "✗ "+missing)
	assert.Contains(t, stdout, "✗ Validation failed")
}

func TestValidateLoadErrorsJSON(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.txt", "name: bad\n")

	stdout, _, err := execute(NewValidateCommand(&RootOptions{Format: "json"}), bad)
	require.Error(t, err)

	var resp validateResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidSuite, resp.Error.Code)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Contains(t, resp.Data.Errors[0], "unsupported suite extension")
}

func TestValidateMissingArgs(t *testing.T) {
	_, _, err := execute(NewValidateCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
