package harness

import (
	"fmt"
	"path/filepath"
)

// Param is a single script parameter. Value is rendered with fmt.Sprint.
type Param struct {
	Name  string
	Value any
}

// Params is an ordered parameter mapping. Insertion order is preserved in
// the encoded flag string.
type Params []Param

// P builds Params from alternating name/value arguments.
// Panics on an odd argument count.
//
//	harness.P("input", "in.txt", "limit", 10)
func P(pairs ...any) Params {
	if len(pairs)%2 != 0 {
		panic("harness.P: odd number of arguments")
	}
	params := make(Params, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		params = append(params, Param{Name: fmt.Sprint(pairs[i]), Value: pairs[i+1]})
	}
	return params
}

// File is a fixture or expected output: a file name relative to the work
// directory and its full text content.
type File struct {
	Name    string
	Content string
}

// Files is an ordered filename to content mapping.
type Files []File

// F builds Files from alternating name/content arguments.
// Panics on an odd argument count.
func F(pairs ...string) Files {
	if len(pairs)%2 != 0 {
		panic("harness.F: odd number of arguments")
	}
	files := make(Files, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		files = append(files, File{Name: pairs[i], Content: pairs[i+1]})
	}
	return files
}

// Lookup returns the content for name.
func (fs Files) Lookup(name string) (string, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Content, true
		}
	}
	return "", false
}

// Validate checks that names are unique and stay inside the work directory.
func (fs Files) Validate() error {
	seen := make(map[string]bool, len(fs))
	for i, f := range fs {
		if f.Name == "" {
			return fmt.Errorf("file[%d]: name is required", i)
		}
		if !filepath.IsLocal(f.Name) {
			return fmt.Errorf("file[%d]: %q escapes the work directory", i, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("file[%d]: duplicate name %q", i, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Guard identifies which precondition stopped a verification before any
// file was compared.
type Guard string

// Verification guards, checked in this order.
const (
	GuardNone            Guard = ""
	GuardOutputsShape    Guard = "outputs_shape"
	GuardNoOutputs       Guard = "no_outputs"
	GuardNonZeroExitCode Guard = "non_zero_exit"
)

// Mismatch is the first differing line pair in a file.
// A line missing on one side is reported as the empty string; Line is the
// zero-based position in the compared (possibly sorted) sequences.
type Mismatch struct {
	Line     int    `json:"line"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// FileResult is the comparison outcome for one expected output file.
type FileResult struct {
	Name     string    `json:"name"`
	Pass     bool      `json:"pass"`
	Mismatch *Mismatch `json:"mismatch,omitempty"`
}

// Report is the outcome of a verification pass.
type Report struct {
	// Pass is true only if every expected file matched.
	Pass bool `json:"pass"`

	// Guard is set when a precondition failed; Files is empty in that case.
	Guard Guard `json:"guard,omitempty"`

	// Files holds one result per expected file, in expectation order.
	Files []FileResult `json:"files"`
}

// FirstFailure returns the first failed file, or nil.
func (r *Report) FirstFailure() *FileResult {
	for i := range r.Files {
		if !r.Files[i].Pass {
			return &r.Files[i]
		}
	}
	return nil
}
