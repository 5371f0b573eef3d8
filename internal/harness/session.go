package harness

import (
	"fmt"
	"path/filepath"

	"github.com/roach88/pigspec/internal/sequence"
)

// DefaultDirPrefix names work directories as pig_test_<n>.
const DefaultDirPrefix = "pig_test_"

// Session owns the invocation counter shared by every harness created from
// it. Work directories are named <BaseDir>/<Prefix><n>, one per invocation.
type Session struct {
	counter *sequence.Counter
	baseDir string
	prefix  string
}

// SessionOptions configures a Session. Zero values select the defaults.
type SessionOptions struct {
	// BaseDir is where work directories are created. Default: current directory.
	BaseDir string

	// Prefix is prepended to the invocation number. Default: DefaultDirPrefix.
	Prefix string

	// Counter overrides the invocation counter, e.g. to continue numbering.
	Counter *sequence.Counter
}

// NewSession creates a session. BaseDir is resolved to an absolute path.
func NewSession(opts SessionOptions) (*Session, error) {
	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve work dir base %q: %w", base, err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultDirPrefix
	}

	counter := opts.Counter
	if counter == nil {
		counter = sequence.NewCounter()
	}

	return &Session{counter: counter, baseDir: abs, prefix: prefix}, nil
}

// TestNumber returns the number of the most recent invocation (0 before any).
func (s *Session) TestNumber() int64 {
	return s.counter.Current()
}

// BaseDir returns the absolute directory work directories are created in.
func (s *Session) BaseDir() string {
	return s.baseDir
}

// next advances the counter for a new invocation.
func (s *Session) next() int64 {
	return s.counter.Next()
}

// workDir returns the work directory of invocation n.
func (s *Session) workDir(n int64) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s%d", s.prefix, n))
}
