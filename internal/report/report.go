// Package report summarizes suite results for the CLI as text or JSON.
package report

import (
	"os"
	"path/filepath"

	"github.com/roach88/pigspec/internal/harness"
	"github.com/roach88/pigspec/internal/suite"
)

// CaseSummary is the reportable form of a suite.CaseResult.
type CaseSummary struct {
	Suite       string               `json:"suite"`
	Case        string               `json:"case"`
	RunID       string               `json:"run_id"`
	Fingerprint string               `json:"fingerprint"`
	TestNumber  int64                `json:"test_number"`
	Command     string               `json:"command"`
	WorkDir     string               `json:"work_dir"`
	ExitCode    int                  `json:"exit_code"`
	Pass        bool                 `json:"pass"`
	Guard       harness.Guard        `json:"guard,omitempty"`
	Files       []harness.FileResult `json:"files"`
	Error       string               `json:"error,omitempty"`
	Diffs       []FileDiff           `json:"diffs,omitempty"`
}

// FileDiff is a whole-file line diff of a failed output file.
type FileDiff struct {
	File  string     `json:"file"`
	Lines []DiffLine `json:"lines"`
}

// Summary is the result of one test command across all suites.
type Summary struct {
	Cases  []CaseSummary `json:"cases"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// HasFailures reports whether any case failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Options controls what Summarize collects.
type Options struct {
	// Diff adds a line diff for every failed file, read back from the
	// case's work directory.
	Diff bool
}

// Summarize converts results into a Summary.
func Summarize(results []suite.CaseResult, opts Options) Summary {
	s := Summary{Cases: make([]CaseSummary, 0, len(results))}
	for _, r := range results {
		cs := CaseSummary{
			Suite:       r.Suite,
			Case:        r.Case,
			RunID:       r.RunID,
			Fingerprint: r.Fingerprint,
			TestNumber:  r.TestNumber,
			Command:     r.Command,
			WorkDir:     r.WorkDir,
			ExitCode:    r.ExitCode,
			Pass:        r.Passed(),
			Files:       []harness.FileResult{},
		}
		if r.Report != nil {
			cs.Guard = r.Report.Guard
			cs.Files = r.Report.Files
		}
		if r.Err != nil {
			cs.Error = r.Err.Error()
		}
		if opts.Diff {
			cs.Diffs = fileDiffs(r, cs.Files)
		}

		s.Cases = append(s.Cases, cs)
		s.Total++
		if cs.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

func fileDiffs(r suite.CaseResult, files []harness.FileResult) []FileDiff {
	var diffs []FileDiff
	for _, f := range files {
		if f.Pass {
			continue
		}
		expected, _ := r.Outputs.Lookup(f.Name)
		actual, err := os.ReadFile(filepath.Join(r.WorkDir, f.Name))
		if err != nil {
			continue
		}
		diffs = append(diffs, FileDiff{File: f.Name, Lines: LineDiff(expected, string(actual))})
	}
	return diffs
}
