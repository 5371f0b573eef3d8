package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const verifyBanner = "----------------------------------\n" +
	"| Verifying Pig script output... |\n" +
	"----------------------------------\n"

// Verify compares every expected output file against the file of the same
// name in the work directory. See VerifyReport.
func (h *Harness) Verify(orderMatters bool) (bool, error) {
	report, err := h.VerifyReport(orderMatters)
	if err != nil {
		return false, err
	}
	return report.Pass, nil
}

// VerifyReport compares expected outputs against the work directory.
//
// With orderMatters false both sides are sorted first, so the comparison is
// a multiset equality: duplicate lines still count. Each failing file gets
// one "Mismatch detected" diagnostic for its first differing line; every
// expected file is checked regardless of earlier failures.
//
// The pass is skipped entirely, with a diagnostic, when the expectation is
// not a mapping, when it is empty, or when the script exited non-zero.
// An expected file that cannot be read aborts verification with an error.
func (h *Harness) VerifyReport(orderMatters bool) (*Report, error) {
	fmt.Fprint(h.stdout, verifyBanner)

	report := &Report{Pass: true, Files: []FileResult{}}

	switch {
	case h.outputsKind != "":
		fmt.Fprintf(h.stderr, "Expected hash of expected output with (filename, file content) pairs. Unexpected class: %s\n", h.outputsKind)
		report.Pass = false
		report.Guard = GuardOutputsShape
		return report, nil
	case len(h.outputs) == 0:
		fmt.Fprintln(h.stderr, "No output files to verify.")
		report.Pass = false
		report.Guard = GuardNoOutputs
		return report, nil
	case h.exitCode != 0:
		fmt.Fprintf(h.stderr, "Pig script exited with non-zero exit code: %d.\n", h.exitCode)
		report.Pass = false
		report.Guard = GuardNonZeroExitCode
		return report, nil
	}

	for _, expected := range h.outputs {
		data, err := os.ReadFile(filepath.Join(h.inputDir, expected.Name))
		if err != nil {
			return nil, fmt.Errorf("verify output %s: %w", expected.Name, err)
		}

		actualLines := SplitLines(string(data))
		expectedLines := SplitLines(expected.Content)
		if !orderMatters {
			sort.Strings(actualLines)
			sort.Strings(expectedLines)
		}

		result := FileResult{Name: expected.Name, Pass: true}
		if m := CompareLines(expectedLines, actualLines); m != nil {
			fmt.Fprintf(h.stderr, "Mismatch detected in '%s':\n", expected.Name)
			fmt.Fprintf(h.stderr, "\tExpected line: '%s'\n", m.Expected)
			fmt.Fprintf(h.stderr, "\tActual line:   '%s'\n", m.Actual)
			result.Pass = false
			result.Mismatch = m
			report.Pass = false
		}
		report.Files = append(report.Files, result)

		h.logger.Debug("file verified",
			"file", expected.Name,
			"pass", result.Pass,
			"order_matters", orderMatters,
		)
	}

	return report, nil
}

// SplitLines splits s on "\n" and drops trailing empty segments, so a final
// newline (or several) adds no lines and "" has no lines at all. Empty lines
// in the middle are kept.
func SplitLines(s string) []string {
	lines := strings.Split(s, "\n")
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	return lines[:end]
}

// CompareLines walks both sequences in step and returns the first position
// where they differ, or nil if they are identical. A position past the end
// of one sequence differs from any line on the other side, including an
// empty one; the missing side is reported as "".
func CompareLines(expected, actual []string) *Mismatch {
	n := max(len(expected), len(actual))
	for i := 0; i < n; i++ {
		e, hasExpected := lineAt(expected, i)
		a, hasActual := lineAt(actual, i)
		if hasExpected == hasActual && e == a {
			continue
		}
		return &Mismatch{Line: i, Expected: e, Actual: a}
	}
	return nil
}

func lineAt(lines []string, i int) (string, bool) {
	if i < len(lines) {
		return lines[i], true
	}
	return "", false
}
