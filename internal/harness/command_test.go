package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"mixed value types keep order", P("foo", 123, "bAr", "234"), "-p foo=123 -p bAr=234"},
		{"single", P("param1", "baz"), "-p param1=baz"},
		{"empty", Params{}, ""},
		{"nil", nil, ""},
		{"bool and float", P("on", true, "ratio", 0.5), "-p on=true -p ratio=0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildParams(tt.params))
		})
	}
}

func TestBuildParams_OneTokenPerPair(t *testing.T) {
	params := P("a", 1, "b", 2, "c", 3, "d", 4)
	encoded := BuildParams(params)

	assert.Equal(t, len(params), strings.Count(encoded, "-p "))
	assert.False(t, strings.HasPrefix(encoded, " "))
	assert.False(t, strings.HasSuffix(encoded, " "))
	assert.NotContains(t, encoded, "  ")
}

func TestBuildCommandLine(t *testing.T) {
	line := BuildCommandLine(pigBinary, scriptName, P("param1", "baz"))

	assert.Equal(t, "pig -p param1=baz test.pig", line)
	assert.Equal(t, 1, strings.Count(line, "-p param1=baz"))
	assert.True(t, strings.HasSuffix(line, "baz "+scriptName))
}

func TestBuildCommandLine_NoParams(t *testing.T) {
	assert.Equal(t, "pig test.pig", BuildCommandLine(pigBinary, scriptName, Params{}))
	assert.Equal(t, "pig test.pig", BuildCommandLine(pigBinary, scriptName, nil))
}

// The binary argument does not appear in the command line; every line starts
// with the fixed prefix. Callers relying on the binary being embedded will
// break, and this test pins that behavior.
func TestBuildCommandLine_BinaryIsNotEmbedded(t *testing.T) {
	line := BuildCommandLine(pigBinary, scriptName, nil)

	assert.NotContains(t, line, pigBinary)
	assert.True(t, strings.HasPrefix(line, CommandPrefix+" "))
}

func TestBuildCommandLine_ScriptPassedThrough(t *testing.T) {
	assert.Equal(t, "pig -p x=1 some dir/odd;name.pig", BuildCommandLine("", "some dir/odd;name.pig", P("x", 1)))
}
