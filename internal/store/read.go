package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// RunFilter narrows ListRuns. Zero fields match everything.
type RunFilter struct {
	Suite       string
	Case        string
	Fingerprint string
	FailedOnly  bool

	// Limit keeps only the most recent N runs. 0 means no limit.
	Limit int
}

const runColumns = `seq, id, suite, case_name, fingerprint, test_number, command, work_dir, exit_code, passed, guard, error`

// ReadRun returns a run with its mismatches.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}

	run.Mismatches, err = s.readMismatches(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ListRuns returns matching runs ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	var where []string
	var args []any
	if filter.Suite != "" {
		where = append(where, "suite = ?")
		args = append(args, filter.Suite)
	}
	if filter.Case != "" {
		where = append(where, "case_name = ?")
		args = append(args, filter.Case)
	}
	if filter.Fingerprint != "" {
		where = append(where, "fingerprint = ?")
		args = append(args, filter.Fingerprint)
	}
	if filter.FailedOnly {
		where = append(where, "passed = 0")
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if filter.Limit > 0 {
		query = `SELECT ` + runColumns + ` FROM (` + query + ` ORDER BY seq DESC LIMIT ?)`
		args = append(args, filter.Limit)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		runs[i].Mismatches, err = s.readMismatches(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) readMismatches(ctx context.Context, runID string) ([]Mismatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file, line, expected, actual
		FROM mismatches
		WHERE run_id = ?
		ORDER BY rowid ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query mismatches: %w", err)
	}
	defer rows.Close()

	mismatches := []Mismatch{}
	for rows.Next() {
		var m Mismatch
		if err := rows.Scan(&m.File, &m.Line, &m.Expected, &m.Actual); err != nil {
			return nil, fmt.Errorf("scan mismatch: %w", err)
		}
		mismatches = append(mismatches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mismatches: %w", err)
	}
	return mismatches, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var passed int
	err := row.Scan(
		&run.Seq,
		&run.ID,
		&run.Suite,
		&run.Case,
		&run.Fingerprint,
		&run.TestNumber,
		&run.Command,
		&run.WorkDir,
		&run.ExitCode,
		&passed,
		&run.Guard,
		&run.Error,
	)
	if err != nil {
		return Run{}, err
	}
	run.Passed = passed == 1
	return run, nil
}
