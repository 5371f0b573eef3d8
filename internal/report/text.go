package report

import (
	"fmt"
	"io"

	"github.com/roach88/pigspec/internal/harness"
)

// TextOptions controls text rendering.
type TextOptions struct {
	// Verbose adds the command line and work directory of failed cases.
	Verbose bool
}

// WriteText renders s as one line per case followed by the summary line.
func WriteText(w io.Writer, s Summary, opts TextOptions) error {
	for _, c := range s.Cases {
		if c.Pass {
			fmt.Fprintf(w, "✓ %s / %s\n", c.Suite, c.Case)
			continue
		}

		fmt.Fprintf(w, "✗ %s / %s\n", c.Suite, c.Case)
		if opts.Verbose {
			fmt.Fprintf(w, "    command:  %s\n", c.Command)
			fmt.Fprintf(w, "    work dir: %s\n", c.WorkDir)
		}
		switch {
		case c.Error != "":
			fmt.Fprintf(w, "    error: %s\n", c.Error)
		case c.Guard != harness.GuardNone:
			fmt.Fprintf(w, "    not verified: %s\n", guardText(c))
		}
		for _, f := range c.Files {
			if f.Pass || f.Mismatch == nil {
				continue
			}
			fmt.Fprintf(w, "    %s line %d: expected '%s', actual '%s'\n",
				f.Name, f.Mismatch.Line+1, f.Mismatch.Expected, f.Mismatch.Actual)
		}
		for _, d := range c.Diffs {
			fmt.Fprintf(w, "    --- expected/%s\n", d.File)
			fmt.Fprintf(w, "    +++ actual/%s\n", d.File)
			for _, line := range d.Lines {
				fmt.Fprintf(w, "    %s%s\n", line.Op, line.Text)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", s.Passed, s.Failed, s.Total)
	if !s.HasFailures() {
		fmt.Fprintln(w, "✓ All cases passed")
	}
	return nil
}

func guardText(c CaseSummary) string {
	switch c.Guard {
	case harness.GuardOutputsShape:
		return "expected outputs are not a mapping"
	case harness.GuardNoOutputs:
		return "no output files to verify"
	case harness.GuardNonZeroExitCode:
		return fmt.Sprintf("script exited with code %d", c.ExitCode)
	default:
		return string(c.Guard)
	}
}
