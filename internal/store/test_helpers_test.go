package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a passing run with minimal required fields.
func createTestRun(id, suite, caseName string) Run {
	return Run{
		ID:          id,
		Suite:       suite,
		Case:        caseName,
		Fingerprint: "fp-" + caseName,
		TestNumber:  1,
		Command:     "pig " + caseName + ".pig",
		WorkDir:     "/tmp/pig_test_1",
		Passed:      true,
	}
}
