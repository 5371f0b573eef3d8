package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/roach88/pigspec/internal/harness"
)

// Archive member prefixes.
const (
	txtarInputPrefix  = "input/"
	txtarOutputPrefix = "output/"
	txtarScriptPrefix = "script/"
)

// txtarHeader is the YAML comment section of a txtar suite.
type txtarHeader struct {
	Name         string    `yaml:"name"`
	Binary       string    `yaml:"binary"`
	Script       string    `yaml:"script"`
	OrderMatters *bool     `yaml:"order_matters"`
	Params       yaml.Node `yaml:"params"`
}

// ParseTxtar decodes a single-case txtar suite.
//
// The archive comment is a YAML header. Members named input/<name> and
// output/<name> are fixtures and expectations. A script/<name> member is
// written into the work directory with the fixtures and run from there.
//
//	name: counts words
//	params:
//	  input: in.txt
//	-- script/wordcount.pig --
//	...
//	-- input/in.txt --
//	a b
//	-- output/out.txt --
//	a 1
//	b 1
func ParseTxtar(path string, data []byte) (*Suite, error) {
	archive := txtar.Parse(data)

	var header txtarHeader
	decoder := yaml.NewDecoder(bytes.NewReader(archive.Comment))
	decoder.KnownFields(true)
	if err := decoder.Decode(&header); err != nil && !errors.Is(err, io.EOF) {
		return nil, loadError(path, ErrCodeParse, "failed to parse txtar header", err)
	}

	name := header.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	c := Case{
		Name:         name,
		Binary:       header.Binary,
		Script:       header.Script,
		ScriptDir:    suiteDir(path),
		OrderMatters: orderMatters(header.OrderMatters),
	}

	var err error
	if c.Params, err = paramsFromNode(&header.Params); err != nil {
		return nil, loadError(path, ErrCodeInvalid, "params", err)
	}

	inputs := harness.Files{}
	outputs := harness.Files{}
	for _, f := range archive.Files {
		switch {
		case strings.HasPrefix(f.Name, txtarInputPrefix):
			inputs = append(inputs, harness.File{Name: strings.TrimPrefix(f.Name, txtarInputPrefix), Content: string(f.Data)})
		case strings.HasPrefix(f.Name, txtarOutputPrefix):
			outputs = append(outputs, harness.File{Name: strings.TrimPrefix(f.Name, txtarOutputPrefix), Content: string(f.Data)})
		case strings.HasPrefix(f.Name, txtarScriptPrefix):
			if c.Script != "" {
				return nil, loadError(path, ErrCodeInvalid, fmt.Sprintf("member %q: script already set to %q", f.Name, c.Script), nil)
			}
			scriptName := strings.TrimPrefix(f.Name, txtarScriptPrefix)
			inputs = append(inputs, harness.File{Name: scriptName, Content: string(f.Data)})
			c.Script = scriptName
			c.ScriptDir = ""
		default:
			return nil, loadError(path, ErrCodeInvalid, fmt.Sprintf("member %q: expected input/, output/ or script/ prefix", f.Name), nil)
		}
	}
	c.Inputs = inputs
	c.Outputs = outputs

	s := &Suite{
		Name:   name,
		Binary: header.Binary,
		Path:   path,
		Format: FormatTxtar,
		Cases:  []Case{c},
	}
	if err := validateSuite(s); err != nil {
		return nil, loadError(path, ErrCodeInvalid, "invalid suite", err)
	}
	return s, nil
}
