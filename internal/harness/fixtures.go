package harness

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteInputFiles recreates the current invocation's work directory and
// writes one file per entry with exactly the given content. Anything left in
// the directory from an earlier call is removed first.
func (h *Harness) WriteInputFiles(inputs Files) error {
	return h.writeInputsRaw(inputs)
}

func (h *Harness) writeInputsRaw(inputs any) error {
	if err := h.prepareInputDir(); err != nil {
		return err
	}

	files, kind, ok := filesOf(inputs)
	if !ok {
		fmt.Fprintf(h.stderr, "Input files had unexpected class: %s\n", kind)
		return nil
	}

	for _, f := range files {
		if !filepath.IsLocal(f.Name) {
			return fmt.Errorf("write input files: %q escapes the work directory", f.Name)
		}
		path := filepath.Join(h.inputDir, f.Name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("write input files: %w", err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("write input files: %w", err)
		}
	}

	h.logger.Debug("input files written", "dir", h.inputDir, "count", len(files))
	return nil
}

// prepareInputDir replaces any existing directory at the current
// invocation's work directory with an empty one.
func (h *Harness) prepareInputDir() error {
	if h.inputDir == "" {
		h.inputDir = h.session.workDir(h.testNumber)
	}
	if err := os.RemoveAll(h.inputDir); err != nil {
		return fmt.Errorf("clear work dir: %w", err)
	}
	if err := os.MkdirAll(h.inputDir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	return nil
}
