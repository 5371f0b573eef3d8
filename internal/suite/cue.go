package suite

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseCUE evaluates a CUE suite. The value must be concrete; it is exported
// to JSON, which keeps field order, and decoded as a YAML suite would be.
func ParseCUE(path string, data []byte) (*Suite, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, loadError(path, ErrCodeParse, "compiling CUE suite", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, loadError(path, ErrCodeCUEEvaluate, "suite must be concrete", err)
	}

	exported, err := value.MarshalJSON()
	if err != nil {
		return nil, loadError(path, ErrCodeCUEEvaluate, "exporting CUE suite", err)
	}

	s, err := decodeSuite(path, exported)
	if err != nil {
		return nil, err
	}
	s.Format = FormatCUE
	return s, nil
}
