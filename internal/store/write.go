package store

import (
	"context"
	"fmt"
)

// Run is one recorded case execution.
type Run struct {
	Seq         int64      `json:"seq"`
	ID          string     `json:"id"`
	Suite       string     `json:"suite"`
	Case        string     `json:"case"`
	Fingerprint string     `json:"fingerprint"`
	TestNumber  int64      `json:"test_number"`
	Command     string     `json:"command"`
	WorkDir     string     `json:"work_dir"`
	ExitCode    int        `json:"exit_code"`
	Passed      bool       `json:"passed"`
	Guard       string     `json:"guard,omitempty"`
	Error       string     `json:"error,omitempty"`
	Mismatches  []Mismatch `json:"mismatches"`
}

// Mismatch is the first differing line pair of one output file.
type Mismatch struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// WriteRun inserts a run and its mismatches in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same run ID
// twice keeps the first record and its mismatches unchanged.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("write run: id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, suite, case_name, fingerprint, test_number, command, work_dir, exit_code, passed, guard, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Suite,
		run.Case,
		run.Fingerprint,
		run.TestNumber,
		run.Command,
		run.WorkDir,
		run.ExitCode,
		boolToInt(run.Passed),
		run.Guard,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: rows affected: %w", err)
	}
	if inserted == 0 {
		return tx.Commit()
	}

	for _, m := range run.Mismatches {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO mismatches (run_id, file, line, expected, actual)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, run.ID, m.File, m.Line, m.Expected, m.Actual)
		if err != nil {
			return fmt.Errorf("write run: mismatch %s: %w", m.File, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
