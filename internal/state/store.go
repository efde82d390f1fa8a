// Package state keeps the run history of tollgen in a local SQLite file.
// It records each generation run against a target database so that later
// runs can continue trip numbering where the last successful one stopped.
package state

import (
	"context"
	"time"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run is one generation run.
type Run struct {
	ID     string
	Target string
	Status RunStatus
	Seed   uint64
	// StartIndex is the index of the first trip; the run covers
	// [StartIndex, StartIndex+Trips).
	StartIndex  int
	Trips       int
	Inserted    int
	Skipped     int
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// NextIndex is the first trip index after this run.
func (r *Run) NextIndex() int { return r.StartIndex + r.Trips }

// Duration is the wall time of a finished run, zero while running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// Store is the run history contract used by the engine.
type Store interface {
	CreateRun(ctx context.Context, run *Run) error
	CompleteRun(ctx context.Context, id string, inserted, skipped int) error
	FailRun(ctx context.Context, id string, status RunStatus, errMsg string) error
	GetRun(ctx context.Context, id string) (*Run, error)
	GetLatestRun(ctx context.Context, target string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	NextTripIndex(ctx context.Context, target string) (int, error)
	Close() error
}
