package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/htmlconf/internal/runner"
)

// Run is one recorded suite run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Suite     string
	Total     int
	Passed    int
	Failed    int
}

// NewRunID returns a fresh UUIDv7 run id. V7 ids sort by creation time,
// which keeps history listings stable without relying on rowids.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// RecordRun persists one suite summary and its capped failure list in a
// single transaction, returning the new run id.
func (s *Store) RecordRun(ctx context.Context, suite string, sum runner.Summary) (string, error) {
	id := NewRunID()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, suite, total, passed, failed)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, createdAt, suite, sum.Total, sum.Passed, sum.Failed)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}

	for seq, f := range sum.Failures {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_failures (run_id, seq, file, case_index, label)
			VALUES (?, ?, ?, ?, ?)
		`, id, seq, f.File, f.CaseIndex, f.Label)
		if err != nil {
			return "", fmt.Errorf("record run failure %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, suite, total, passed, failed
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.Suite, &r.Total, &r.Passed, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunFailures returns the recorded failure triples for one run, in the
// order they were kept.
func (s *Store) RunFailures(ctx context.Context, runID string) ([]runner.Failure, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT file, case_index, label
		FROM run_failures
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run failures: %w", err)
	}
	defer rows.Close()

	var failures []runner.Failure
	for rows.Next() {
		var f runner.Failure
		if err := rows.Scan(&f.File, &f.CaseIndex, &f.Label); err != nil {
			return nil, fmt.Errorf("scan failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}
