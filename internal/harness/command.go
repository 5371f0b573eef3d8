package harness

import (
	"fmt"
	"strings"
)

// CommandPrefix starts every command line the harness builds.
const CommandPrefix = "pig"

// BuildParams encodes params as "-p name=value" tokens joined by single
// spaces, in order. Empty params encode to "".
func BuildParams(params Params) string {
	tokens := make([]string, 0, len(params))
	for _, p := range params {
		tokens = append(tokens, "-p "+p.Name+"="+fmt.Sprint(p.Value))
	}
	return strings.Join(tokens, " ")
}

// BuildCommandLine returns "pig [params ]script".
//
// The binary argument is accepted for call-site symmetry with Test but is
// not part of the line: the command always starts with CommandPrefix.
// Script is passed through unvalidated.
func BuildCommandLine(binary, script string, params Params) string {
	encoded := BuildParams(params)
	if encoded != "" {
		encoded += " "
	}
	return CommandPrefix + " " + encoded + script
}
