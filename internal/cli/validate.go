package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pigspec/internal/suite"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool            `json:"valid"`
	Suites []SuiteOverview `json:"suites"`
	Errors []string        `json:"errors,omitempty"`
}

// SuiteOverview describes a suite that loaded.
type SuiteOverview struct {
	Path   string         `json:"path"`
	Name   string         `json:"name"`
	Format suite.Format   `json:"format"`
	Cases  []CaseOverview `json:"cases"`
}

// CaseOverview describes one case of a loaded suite.
type CaseOverview struct {
	Name        string   `json:"name"`
	Script      string   `json:"script"`
	Fingerprint string   `json:"fingerprint"`
	Warnings    []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <suite>...",
		Short: "Check suite files without running them",
		Long: `Load suite files and report load errors, without running any script.

Values that are not mappings (params, inputs or outputs) are reported as
warnings: they load, but the harness will flag them when the case runs.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		return err
	}
	formatter := newFormatter(opts, cfg, cmd)

	suites, loadErrs := suite.LoadAll(paths)

	result := ValidationResult{
		Valid:  len(loadErrs) == 0,
		Suites: make([]SuiteOverview, 0, len(suites)),
	}
	for _, s := range suites {
		formatter.VerboseLog("Loaded %s: %d case(s)", s.Path, len(s.Cases))
		result.Suites = append(result.Suites, overview(s))
	}
	for _, err := range loadErrs {
		result.Errors = append(result.Errors, err.Error())
	}

	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			response.Status = "error"
			response.Error = &CLIError{
				Code:    ErrCodeInvalidSuite,
				Message: fmt.Sprintf("%d suite(s) failed to load", len(loadErrs)),
			}
		}
		if err := formatter.Encode(response); err != nil {
			return err
		}
	} else {
		outputValidateText(formatter, result)
	}

	if !result.Valid {
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(loadErrs)))
	}
	return nil
}

func overview(s *suite.Suite) SuiteOverview {
	o := SuiteOverview{
		Path:   s.Path,
		Name:   s.Name,
		Format: s.Format,
		Cases:  make([]CaseOverview, 0, len(s.Cases)),
	}
	for _, c := range s.Cases {
		fp, err := c.Fingerprint()
		if err != nil {
			fp = ""
		}
		o.Cases = append(o.Cases, CaseOverview{
			Name:        c.Name,
			Script:      c.Script,
			Fingerprint: fp,
			Warnings:    c.ShapeWarnings(),
		})
	}
	return o
}

func outputValidateText(formatter *OutputFormatter, result ValidationResult) {
	w := formatter.Writer
	for _, s := range result.Suites {
		fmt.Fprintf(w, "✓ %s (%s, %d case(s))\n", s.Path, s.Format, len(s.Cases))
		for _, c := range s.Cases {
			for _, warning := range c.Warnings {
				fmt.Fprintf(w, "  ! %s: %s\n", c.Name, warning)
			}
		}
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "✗ %s\n", e)
	}

	if result.Valid {
		fmt.Fprintln(w, "✓ All suites valid")
	} else {
		fmt.Fprintln(w, "✗ Validation failed")
	}
}
