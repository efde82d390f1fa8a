package engine

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/internal/generator"
	"github.com/leapstack-labs/tollgen/internal/linker"
	"github.com/leapstack-labs/tollgen/internal/persist"
	"github.com/leapstack-labs/tollgen/internal/state"
)

// GenerateOptions controls one generation run.
type GenerateOptions struct {
	Trips int
	// Start is the first trip index. Zero continues after the last
	// completed run for the target, or starts at 1.
	Start int
	// Seed for the generator. Zero picks a random seed.
	Seed        uint64
	Sections    int
	ReportLimit int
	Progress    int
}

// RunResult is everything a generation run produced.
type RunResult struct {
	Run     *state.Run
	Tables  []persist.TableResult
	Linked  *linker.Result
	Summary *persist.Summary
}

// Generate creates tables, then writes opts.Trips trips and the reporting
// pass in a single transaction. Any *persist.TransactionError rolls the
// whole run back.
func (e *Engine) Generate(ctx context.Context, opts GenerateOptions) (*RunResult, error) {
	if opts.Trips < 0 {
		return nil, fmt.Errorf("trips must not be negative, got %d", opts.Trips)
	}

	runner, err := e.newRunner(ctx)
	if err != nil {
		return nil, err
	}

	res := &RunResult{}
	if res.Tables, err = e.createTables(ctx, runner); err != nil {
		return res, err
	}

	start, err := e.startIndex(ctx, opts.Start)
	if err != nil {
		return res, err
	}

	gen := generator.New(opts.Seed, e.genOpts...)
	res.Run = &state.Run{
		Target:     e.Target(),
		Seed:       gen.Seed(),
		StartIndex: start,
		Trips:      opts.Trips,
	}
	if e.store != nil {
		if err := e.store.CreateRun(ctx, res.Run); err != nil {
			return res, err
		}
	}
	log := e.logger.With(zap.String("run", res.Run.ID), zap.Uint64("seed", res.Run.Seed))
	log.Info("run started", zap.Int("trips", opts.Trips), zap.Int("start", start))

	if err := runner.Begin(ctx); err != nil {
		return res, e.fail(ctx, res.Run, err)
	}

	lk := linker.New(gen, runner, log.Named("linker"))
	res.Linked, err = lk.Run(ctx, linker.Plan{
		Trips:       opts.Trips,
		Start:       start,
		Sections:    opts.Sections,
		ReportLimit: opts.ReportLimit,
		Progress:    opts.Progress,
	})
	if err != nil {
		var txErr *persist.TransactionError
		if !errors.As(err, &txErr) {
			err = &persist.TransactionError{Op: "generate", Err: err}
		}
		if rbErr := runner.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return res, e.fail(ctx, res.Run, err)
	}

	res.Summary, err = runner.Finalize(ctx, e.schema.TableNames())
	if err != nil {
		return res, e.fail(ctx, res.Run, err)
	}

	rep := runner.Report()
	if e.store != nil {
		if err := e.store.CompleteRun(context.WithoutCancel(ctx), res.Run.ID, rep.TotalInserted(), rep.TotalSkipped()); err != nil {
			log.Warn("failed to record run completion", zap.Error(err))
		}
	}
	res.Run.Status = state.RunStatusCompleted
	res.Run.Inserted = rep.TotalInserted()
	res.Run.Skipped = rep.TotalSkipped()
	log.Info("run completed", zap.Int("inserted", res.Run.Inserted), zap.Int("skipped", res.Run.Skipped))
	return res, nil
}

func (e *Engine) startIndex(ctx context.Context, start int) (int, error) {
	if start > 0 {
		return start, nil
	}
	if e.store == nil {
		return 1, nil
	}
	return e.store.NextTripIndex(ctx, e.Target())
}

// fail records err against run and returns it.
func (e *Engine) fail(ctx context.Context, run *state.Run, err error) error {
	status := state.RunStatusFailed
	if errors.Is(err, context.Canceled) {
		status = state.RunStatusCancelled
	}
	run.Status = status
	run.Error = err.Error()
	if e.store != nil {
		if ferr := e.store.FailRun(context.WithoutCancel(ctx), run.ID, status, run.Error); ferr != nil {
			e.logger.Warn("failed to record run failure", zap.Error(ferr))
		}
	}
	e.logger.Error("run failed", zap.String("status", string(status)), zap.Error(err))
	return err
}
