package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const runColumns = `id, target, status, seed, start_index, trips, inserted, skipped, started_at, completed_at, error`

// CreateRun records a new running run. ID and StartedAt are filled in when
// empty.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *Run) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if run.ID == "" {
		run.ID = generateID()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = RunStatusRunning

	s.logger.Debug("creating run", zap.String("id", run.ID), zap.String("target", run.Target))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, target, status, seed, start_index, trips, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Target, string(run.Status), strconv.FormatUint(run.Seed, 10), run.StartIndex, run.Trips, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun marks a run as completed with its insert counts.
func (s *SQLiteStore) CompleteRun(ctx context.Context, id string, inserted, skipped int) error {
	if s.db == nil {
		return ErrNotOpen
	}
	return s.finish(ctx,
		`UPDATE runs SET status = ?, inserted = ?, skipped = ?, completed_at = ? WHERE id = ?`,
		id, string(RunStatusCompleted), inserted, skipped, time.Now().UTC(), id)
}

// FailRun marks a run as failed or cancelled.
func (s *SQLiteStore) FailRun(ctx context.Context, id string, status RunStatus, errMsg string) error {
	if s.db == nil {
		return ErrNotOpen
	}
	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}
	return s.finish(ctx,
		`UPDATE runs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		id, string(status), errorPtr, time.Now().UTC(), id)
}

func (s *SQLiteStore) finish(ctx context.Context, query, id string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	run, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// GetLatestRun retrieves the most recent run for a target, or nil.
func (s *SQLiteStore) GetLatestRun(ctx context.Context, target string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	run, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE target = ? ORDER BY started_at DESC LIMIT 1`, target))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves the most recent runs up to the given limit.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// NextTripIndex returns the first trip index not used by a completed run
// against target. Failed runs were rolled back, so their indexes are free.
func (s *SQLiteStore) NextTripIndex(ctx context.Context, target string) (int, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	var next sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(start_index + trips) FROM runs WHERE target = ? AND status = ?`,
		target, string(RunStatusCompleted),
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next trip index: %w", err)
	}
	if !next.Valid || next.Int64 < 1 {
		return 1, nil
	}
	return int(next.Int64), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var (
		status      string
		seed        string
		completedAt sql.NullTime
		errMsg      sql.NullString
	)
	err := row.Scan(&run.ID, &run.Target, &status, &seed, &run.StartIndex, &run.Trips,
		&run.Inserted, &run.Skipped, &run.StartedAt, &completedAt, &errMsg)
	if err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	if run.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("run %s: bad seed %q: %w", run.ID, seed, err)
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return run, nil
}
