package suite

import (
	"fmt"
	"path/filepath"

	"github.com/roach88/pigspec/internal/digest"
	"github.com/roach88/pigspec/internal/harness"
)

// Format identifies the file format a suite was loaded from.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatCUE   Format = "cue"
	FormatTxtar Format = "txtar"
)

// Suite is a named set of cases loaded from one file.
type Suite struct {
	// Name identifies the suite in reports and run history.
	Name string

	// Binary is the default binary identifier for cases that do not set one.
	Binary string

	// Path is the file the suite was loaded from.
	Path string

	// Format is the file format of Path.
	Format Format

	Cases []Case
}

// Case is one runTest + verify invocation.
//
// Params, Inputs and Outputs hold harness.Params / harness.Files when the
// suite file gave a mapping. Any other value is kept as decoded so the
// harness reports it with its unexpected-class diagnostics at run time.
type Case struct {
	Name   string
	Binary string

	// Script is the script reference as written in the suite file.
	Script string

	// ScriptDir is the directory a relative Script is resolved against.
	// Empty means the script lives in the work directory.
	ScriptDir string

	OrderMatters bool

	Params  any
	Inputs  any
	Outputs any
}

// ScriptPath returns the script argument passed on the command line.
func (c Case) ScriptPath() string {
	if c.ScriptDir == "" || filepath.IsAbs(c.Script) {
		return c.Script
	}
	return filepath.Join(c.ScriptDir, c.Script)
}

// Fingerprint returns a stable hash of the case definition.
// The script is hashed as written so fingerprints survive moving a suite.
func (c Case) Fingerprint() (string, error) {
	return digest.CaseFingerprint(map[string]any{
		"binary":        c.Binary,
		"script":        c.Script,
		"order_matters": c.OrderMatters,
		"params":        paramsDigest(c.Params),
		"inputs":        filesDigest(c.Inputs),
		"outputs":       filesDigest(c.Outputs),
	})
}

// ShapeWarnings returns the diagnostics the harness will print for values
// that are not mappings. A case with warnings still runs; it fails
// verification if its outputs are affected.
func (c Case) ShapeWarnings() []string {
	var warnings []string
	if _, ok := c.Params.(harness.Params); !ok {
		warnings = append(warnings, fmt.Sprintf("Params had unexpected class: %s", harness.ShapeOf(c.Params)))
	}
	if _, ok := c.Inputs.(harness.Files); !ok {
		warnings = append(warnings, fmt.Sprintf("Input files had unexpected class: %s", harness.ShapeOf(c.Inputs)))
	}
	if _, ok := c.Outputs.(harness.Files); !ok {
		warnings = append(warnings, fmt.Sprintf("Expected hash of expected output with (filename, file content) pairs. Unexpected class: %s", harness.ShapeOf(c.Outputs)))
	}
	return warnings
}

// Lookup returns the case with the given name.
func (s *Suite) Lookup(name string) (*Case, bool) {
	for i := range s.Cases {
		if s.Cases[i].Name == name {
			return &s.Cases[i], true
		}
	}
	return nil, false
}

func paramsDigest(v any) any {
	params, ok := v.(harness.Params)
	if !ok {
		return rawDigest(v)
	}
	pairs := make([]any, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, []string{p.Name, fmt.Sprint(p.Value)})
	}
	return pairs
}

func filesDigest(v any) any {
	files, ok := v.(harness.Files)
	if !ok {
		return rawDigest(v)
	}
	m := make(map[string]string, len(files))
	for _, f := range files {
		m[f.Name] = f.Content
	}
	return m
}

// rawDigest renders a non-mapping value as text, as canonical JSON has no
// null or float.
func rawDigest(v any) string {
	return fmt.Sprintf("%s:%v", harness.ShapeOf(v), v)
}

// validateSuite checks required fields and fills case defaults.
func validateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	seen := make(map[string]bool, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		if c.Name == "" {
			return fmt.Errorf("case[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("case[%d]: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true

		if c.Script == "" {
			return fmt.Errorf("case %q: script is required", c.Name)
		}
		if c.Binary == "" {
			c.Binary = s.Binary
		}
		if files, ok := c.Inputs.(harness.Files); ok {
			if err := files.Validate(); err != nil {
				return fmt.Errorf("case %q: inputs: %w", c.Name, err)
			}
		}
		if files, ok := c.Outputs.(harness.Files); ok {
			if err := files.Validate(); err != nil {
				return fmt.Errorf("case %q: outputs: %w", c.Name, err)
			}
		}
	}
	return nil
}
