// Package harness functionally tests batch scripts run by an external
// script-processing binary.
//
// A test invocation materializes input fixtures into an isolated work
// directory, runs the script there as a subprocess, and records its exit
// status. A later verification compares the files the script produced
// against expected contents, either line by line or, when order does not
// matter, as sorted line sequences.
//
// # Work Directories
//
// Every call to Harness.Test advances the Session counter by one and uses
// <base>/pig_test_<n> as the work directory. The directory is removed and
// recreated on each invocation, so fixtures never merge with stale files.
// Harnesses that share a Session never share a directory.
//
// # Command Lines
//
// Parameters encode as "-p name=value" tokens and the command line is
//
//	pig -p input=in.txt -p limit=10 wordcount.pig
//
// The line runs through /bin/sh -c with the work directory as its working
// directory; the parent process directory is never changed.
//
// # Verification
//
// Output is split on "\n" with trailing empty segments dropped. For each
// expected file the first differing line pair is reported on the diagnostic
// stream:
//
//	Mismatch detected in 'out.txt':
//		Expected line: 'bye world'
//		Actual line:   ''
//
// A missing line is shown as ''. Verification fails without comparing
// anything if the expectation is empty or not a mapping, or if the script
// exited non-zero.
//
// # Usage
//
//	session, err := harness.NewSession(harness.SessionOptions{BaseDir: t.TempDir()})
//	if err != nil {
//	    t.Fatal(err)
//	}
//	h := harness.New(session)
//	err = h.Test(ctx, "pig-0.6.0-core.jar", "wordcount.pig",
//	    harness.F("in.txt", "a b\n"),
//	    harness.F("out.txt", "a 1\nb 1\n"),
//	    harness.P("input", "in.txt"))
//	ok, err := h.Verify(false)
package harness
