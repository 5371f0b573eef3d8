package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// InstallFakeBinary writes an executable shell script called name into a
// temp directory and puts that directory first on PATH for the rest of the
// test. body is the script after the "#!/bin/sh" line; the script runs with
// the harness work directory as its working directory.
//
// Returns the directory holding the binary.
func InstallFakeBinary(t *testing.T, name, body string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return dir
}

// FakePig installs a "pig" binary that ignores its arguments, runs body and
// exits with body's status.
func FakePig(t *testing.T, body string) string {
	t.Helper()
	return InstallFakeBinary(t, "pig", body)
}
