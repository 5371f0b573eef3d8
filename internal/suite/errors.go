package suite

import "fmt"

// Load error codes, shared with the CLI's JSON output.
const (
	ErrCodeRead        = "E001" // suite file could not be read
	ErrCodeFormat      = "E002" // unknown suite file extension
	ErrCodeParse       = "E003" // malformed YAML, CUE or txtar
	ErrCodeInvalid     = "E004" // well-formed but fails validation
	ErrCodeCUEEvaluate = "E005" // CUE evaluation or export failed
)

// LoadError is a suite that could not be loaded.
type LoadError struct {
	Path    string
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Path, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func loadError(path, code, message string, err error) *LoadError {
	return &LoadError{Path: path, Code: code, Message: message, Err: err}
}
