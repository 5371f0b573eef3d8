package suite

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a suite file, choosing the format by extension.
func Load(path string) (*Suite, error) {
	parse, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, loadError(path, ErrCodeRead, "failed to read suite file", err)
	}
	return parse(path, data)
}

// LoadAll loads every path, collecting load errors instead of stopping at
// the first one.
func LoadAll(paths []string) ([]*Suite, []error) {
	var suites []*Suite
	var errs []error
	for _, path := range paths {
		s, err := Load(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		suites = append(suites, s)
	}
	return suites, errs
}

func parserFor(path string) (func(string, []byte) (*Suite, error), error) {
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return ParseYAML, nil
	case ".cue":
		return ParseCUE, nil
	case ".txtar":
		return ParseTxtar, nil
	default:
		return nil, loadError(path, ErrCodeFormat, fmt.Sprintf("unsupported suite extension %q", ext), nil)
	}
}

// suiteDir is the absolute directory of a suite file. Scripts run with the
// work directory as cwd, so relative script paths must be anchored here.
func suiteDir(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Dir(path)
}
