package cli

import (
	"context"

	"github.com/roach88/pigspec/internal/store"
	"github.com/roach88/pigspec/internal/suite"
)

// storeRecorder writes case results to the run history.
type storeRecorder struct {
	store *store.Store
}

func (r storeRecorder) RecordRun(ctx context.Context, result suite.CaseResult) error {
	return r.store.WriteRun(ctx, runFromResult(result))
}

// runFromResult flattens a case result into a history row, keeping the
// first mismatch of each failed file.
func runFromResult(result suite.CaseResult) store.Run {
	run := store.Run{
		ID:          result.RunID,
		Suite:       result.Suite,
		Case:        result.Case,
		Fingerprint: result.Fingerprint,
		TestNumber:  result.TestNumber,
		Command:     result.Command,
		WorkDir:     result.WorkDir,
		ExitCode:    result.ExitCode,
		Passed:      result.Passed(),
		Mismatches:  []store.Mismatch{},
	}
	if result.Err != nil {
		run.Error = result.Err.Error()
	}
	if result.Report != nil {
		run.Guard = string(result.Report.Guard)
		for _, f := range result.Report.Files {
			if f.Mismatch == nil {
				continue
			}
			run.Mismatches = append(run.Mismatches, store.Mismatch{
				File:     f.Name,
				Line:     f.Mismatch.Line,
				Expected: f.Mismatch.Expected,
				Actual:   f.Mismatch.Actual,
			})
		}
	}
	return run
}
