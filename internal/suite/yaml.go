package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pigspec/internal/harness"
)

// suiteDoc is the on-disk shape of a YAML suite. Mapping-valued fields are
// kept as nodes so their order survives decoding.
type suiteDoc struct {
	Name   string    `yaml:"name"`
	Binary string    `yaml:"binary"`
	Cases  []caseDoc `yaml:"cases"`
}

type caseDoc struct {
	Name         string    `yaml:"name"`
	Binary       string    `yaml:"binary"`
	Script       string    `yaml:"script"`
	OrderMatters *bool     `yaml:"order_matters"`
	Params       yaml.Node `yaml:"params"`
	Inputs       yaml.Node `yaml:"inputs"`
	Outputs      yaml.Node `yaml:"outputs"`
}

// ParseYAML decodes a YAML suite. path is used for error messages and to
// resolve relative script paths.
func ParseYAML(path string, data []byte) (*Suite, error) {
	s, err := decodeSuite(path, data)
	if err != nil {
		return nil, err
	}
	s.Format = FormatYAML
	return s, nil
}

// decodeSuite is shared by the YAML and CUE loaders; exported CUE is JSON,
// which the YAML decoder reads as flow style.
func decodeSuite(path string, data []byte) (*Suite, error) {
	// Reject unknown fields (catches typos like "output:" vs "outputs:")
	var doc suiteDoc
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, loadError(path, ErrCodeParse, "suite file is empty", nil)
		}
		return nil, loadError(path, ErrCodeParse, "failed to parse suite", err)
	}

	s := &Suite{
		Name:   doc.Name,
		Binary: doc.Binary,
		Path:   path,
	}
	scriptDir := suiteDir(path)

	for i, cd := range doc.Cases {
		c, err := caseFromDoc(cd, scriptDir)
		if err != nil {
			return nil, loadError(path, ErrCodeInvalid, fmt.Sprintf("case[%d]", i), err)
		}
		s.Cases = append(s.Cases, c)
	}

	if err := validateSuite(s); err != nil {
		return nil, loadError(path, ErrCodeInvalid, "invalid suite", err)
	}
	return s, nil
}

func caseFromDoc(cd caseDoc, scriptDir string) (Case, error) {
	c := Case{
		Name:         cd.Name,
		Binary:       cd.Binary,
		Script:       cd.Script,
		ScriptDir:    scriptDir,
		OrderMatters: orderMatters(cd.OrderMatters),
	}

	var err error
	if c.Params, err = paramsFromNode(&cd.Params); err != nil {
		return Case{}, fmt.Errorf("params: %w", err)
	}
	if c.Inputs, err = filesFromNode(&cd.Inputs); err != nil {
		return Case{}, fmt.Errorf("inputs: %w", err)
	}
	if c.Outputs, err = filesFromNode(&cd.Outputs); err != nil {
		return Case{}, fmt.Errorf("outputs: %w", err)
	}
	return c, nil
}

// orderMatters defaults to strict line order.
func orderMatters(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// paramsFromNode converts a mapping node to harness.Params, keeping scalar
// values typed. An absent field is an empty mapping.
func paramsFromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return harness.Params{}, nil
	case yaml.MappingNode:
	default:
		return rawValue(n)
	}

	params := make(harness.Params, 0, len(n.Content)/2)
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name, err := mappingKey(n.Content[i])
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate name %q", name)
		}
		seen[name] = true

		v := n.Content[i+1]
		if !isTextScalar(v) {
			return nil, fmt.Errorf("value for %q must be a scalar", name)
		}
		var value any
		if err := v.Decode(&value); err != nil {
			return nil, fmt.Errorf("value for %q: %w", name, err)
		}
		params = append(params, harness.Param{Name: name, Value: value})
	}
	return params, nil
}

// filesFromNode converts a mapping node to harness.Files. Contents are taken
// verbatim from the scalar text. An absent field is an empty mapping.
func filesFromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return harness.Files{}, nil
	case yaml.MappingNode:
	default:
		return rawValue(n)
	}

	files := make(harness.Files, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name, err := mappingKey(n.Content[i])
		if err != nil {
			return nil, err
		}
		v := n.Content[i+1]
		if !isTextScalar(v) {
			return nil, fmt.Errorf("content for %q must be text", name)
		}
		files = append(files, harness.File{Name: name, Content: v.Value})
	}
	return files, nil
}

func mappingKey(k *yaml.Node) (string, error) {
	if k.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
	}
	return k.Value, nil
}

func isTextScalar(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() != "!!null"
}

// rawValue decodes a non-mapping node for the harness's shape diagnostics.
func rawValue(n *yaml.Node) (any, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
