// Package suite loads declarative pig script test suites and runs them
// through the harness.
//
// A suite file holds one or more cases. Each case names a script, its
// parameters, the input fixtures to write into a fresh work directory and
// the output files expected afterwards:
//
//	name: wordcount
//	binary: pig-0.6.0-core.jar
//	cases:
//	  - name: counts words
//	    script: wordcount.pig
//	    order_matters: false
//	    params: {input: in.txt}
//	    inputs: {in.txt: "a b\n"}
//	    outputs: {out.txt: "a 1\nb 1\n"}
//
// YAML (.yaml, .yml), CUE (.cue) and txtar (.txtar) files are supported.
// Mapping order is preserved in every format, so parameters reach the
// command line in the order they were written.
//
// Scripts are resolved relative to the suite file. order_matters defaults
// to true.
package suite
