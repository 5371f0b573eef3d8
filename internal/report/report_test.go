package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pigspec/internal/harness"
	"github.com/roach88/pigspec/internal/suite"
	"github.com/roach88/pigspec/internal/testutil"
)

func sampleResults(workDir string) []suite.CaseResult {
	return []suite.CaseResult{
		{
			Suite:   "sort",
			Case:    "sorts lines",
			Command: "pig -p input=in.txt sort.pig",
			WorkDir: workDir,
			Outputs: harness.F("out.txt", "apple\npear\n"),
			Report: &harness.Report{Pass: true, Files: []harness.FileResult{
				{Name: "out.txt", Pass: true},
			}},
		},
		{
			Suite:   "sort",
			Case:    "ordered",
			Command: "pig sort.pig",
			WorkDir: workDir,
			Outputs: harness.F("out.txt", "apple\npear\nplum\n", "count.txt", "3\n"),
			Report: &harness.Report{Pass: false, Files: []harness.FileResult{
				{Name: "out.txt", Mismatch: &harness.Mismatch{Line: 1, Expected: "pear", Actual: "banana"}},
				{Name: "count.txt", Pass: true},
			}},
		},
		{
			Suite:    "sort",
			Case:     "crashes",
			ExitCode: 3,
			Report:   &harness.Report{Guard: harness.GuardNonZeroExitCode, Files: []harness.FileResult{}},
		},
		{
			Suite: "sort",
			Case:  "missing output",
			Err:   errors.New("verify output nope.txt: no such file"),
		},
	}
}

func TestSummarize_Counts(t *testing.T) {
	s := Summarize(sampleResults(""), Options{})

	assert.Equal(t, 1, s.Passed)
	assert.Equal(t, 3, s.Failed)
	assert.Equal(t, 4, s.Total)
	assert.True(t, s.HasFailures())
	assert.Equal(t, harness.GuardNonZeroExitCode, s.Cases[2].Guard)
	assert.Equal(t, []harness.FileResult{}, s.Cases[3].Files)
	assert.Equal(t, "verify output nope.txt: no such file", s.Cases[3].Error)
}

func TestSummarize_EmptyResults(t *testing.T) {
	s := Summarize(nil, Options{})

	assert.NotNil(t, s.Cases)
	assert.False(t, s.HasFailures())
}

func TestSummarize_DiffReadsActualFile(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "out.txt"), []byte("apple\nbanana\nplum\n"), 0o644))

	s := Summarize(sampleResults(workDir), Options{Diff: true})

	assert.Empty(t, s.Cases[0].Diffs, "passing cases have no diff")
	require.Len(t, s.Cases[1].Diffs, 1, "only failed files are diffed")
	assert.Equal(t, "out.txt", s.Cases[1].Diffs[0].File)
}

func TestLineDiff(t *testing.T) {
	lines := LineDiff("a\nb\nc\n", "a\nx\nc\n")

	assert.Equal(t, []DiffLine{
		{Op: DiffEqual, Text: "a"},
		{Op: DiffDelete, Text: "b"},
		{Op: DiffInsert, Text: "x"},
		{Op: DiffEqual, Text: "c"},
	}, lines)
}

func TestLineDiff_Identical(t *testing.T) {
	lines := LineDiff("a\nb\n", "a\nb\n")

	assert.Equal(t, []DiffLine{
		{Op: DiffEqual, Text: "a"},
		{Op: DiffEqual, Text: "b"},
	}, lines)
}

func TestWriteText_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Summarize(sampleResults(""), Options{}), TextOptions{}))

	testutil.AssertGolden(t, "text_summary", buf.Bytes())
}

func TestWriteText_GoldenWithDiff(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "out.txt"), []byte("apple\nbanana\nplum\n"), 0o644))

	results := sampleResults(workDir)[:2]
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Summarize(results, Options{Diff: true}), TextOptions{}))

	testutil.AssertGolden(t, "text_summary_diff", buf.Bytes())
}

func TestWriteText_AllPassed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Summarize(sampleResults("")[:1], Options{}), TextOptions{}))

	assert.Contains(t, buf.String(), "Test Summary: 1 passed, 0 failed, 1 total\n✓ All cases passed\n")
}

func TestWriteText_Verbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Summarize(sampleResults("/work/pig_test_2")[1:2], Options{}), TextOptions{Verbose: true}))

	assert.Contains(t, buf.String(), "    command:  pig sort.pig\n")
	assert.Contains(t, buf.String(), "    work dir: /work/pig_test_2\n")
}
