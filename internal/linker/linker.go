// Package linker drives the entity generators in dependency order so that
// every record of a trip shares the same identifiers, times and fee plan.
package linker

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/internal/generator"
	"github.com/leapstack-labs/tollgen/internal/persist"
)

// Defaults applied by Plan.normalize.
const (
	DefaultSections    = 5
	DefaultReportLimit = 5
	DefaultProgress    = 100
)

// ErrNoSections is returned when a plan asks for trips without a section
// pool to clear them against.
var ErrNoSections = errors.New("section pool is empty")

// Sink receives records in generation order. persist.Runner is the
// production sink.
type Sink interface {
	InsertRow(ctx context.Context, rec *generator.Record) (persist.RowResult, error)
}

// Plan describes one generation run.
type Plan struct {
	// Trips is the number of vehicle passages to generate.
	Trips int
	// Start is the index of the first trip; ids are derived from it.
	Start int
	// Sections is the size of the road section pool.
	Sections int
	// ReportLimit caps the number of ClearReport rows.
	ReportLimit int
	// Progress logs a line every Progress trips.
	Progress int
}

func (p Plan) normalize() Plan {
	if p.Start < 1 {
		p.Start = 1
	}
	if p.Sections <= 0 {
		p.Sections = DefaultSections
	}
	if p.ReportLimit <= 0 {
		p.ReportLimit = DefaultReportLimit
	}
	if p.Progress <= 0 {
		p.Progress = DefaultProgress
	}
	return p
}

// Result summarises what the linker produced.
type Result struct {
	Trips      int
	Sections   []generator.SectionRef
	ReportKeys []generator.ReportKey
	// Attempted counts records handed to the sink, per table.
	Attempted map[string]int
}

// Linker owns the trip context for the duration of a run.
type Linker struct {
	gen    *generator.Generator
	sink   Sink
	logger *zap.Logger
}

// New returns a linker writing gen's records to sink.
func New(gen *generator.Generator, sink Sink, logger *zap.Logger) *Linker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Linker{gen: gen, sink: sink, logger: logger}
}

// Run generates the section pool, every trip, and the reporting pass. It
// stops at the first error returned by the sink; rejected rows only count
// against the report.
func (l *Linker) Run(ctx context.Context, plan Plan) (*Result, error) {
	plan = plan.normalize()
	res := &Result{Attempted: make(map[string]int)}

	l.logger.Info("generating sections", zap.Int("count", plan.Sections))
	for i := 1; i <= plan.Sections; i++ {
		rec, ref := l.gen.Section(i)
		// A skipped row is usually the same section stored by an earlier
		// run; its identifiers match, so it stays in the pool.
		if _, err := l.emit(ctx, res, rec); err != nil {
			return res, err
		}
		res.Sections = append(res.Sections, ref)
	}
	if plan.Trips > 0 && len(res.Sections) == 0 {
		return res, ErrNoSections
	}

	l.logger.Info("generating trips", zap.Int("count", plan.Trips), zap.Int("start", plan.Start))
	seen := make(map[generator.ReportKey]struct{})
	for n := range plan.Trips {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("trip %d: %w", plan.Start+n, err)
		}
		keys, err := l.trip(ctx, res, plan.Start+n)
		if err != nil {
			return res, fmt.Errorf("trip %d: %w", plan.Start+n, err)
		}
		for _, k := range keys {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				res.ReportKeys = append(res.ReportKeys, k)
			}
		}
		res.Trips++
		if res.Trips%plan.Progress == 0 {
			l.logger.Info("trips generated", zap.Int("done", res.Trips), zap.Int("total", plan.Trips))
		}
	}

	if len(res.ReportKeys) > plan.ReportLimit {
		res.ReportKeys = res.ReportKeys[:plan.ReportLimit]
	}
	l.logger.Info("generating clear reports", zap.Int("count", len(res.ReportKeys)))
	for i, key := range res.ReportKeys {
		// Numbered like gantries so that runs with distinct start indexes
		// never share a report id while ReportLimit stays at or below 10.
		if _, err := l.emit(ctx, res, l.gen.ClearReport(plan.Start*10+i, key)); err != nil {
			return res, fmt.Errorf("clear report %s: %w", key, err)
		}
	}
	return res, nil
}

// trip emits every record of one passage and returns the report keys of
// the clearing results that were stored.
func (l *Linker) trip(ctx context.Context, res *Result, index int) ([]generator.ReportKey, error) {
	t := l.gen.NewTrip(index)

	records := []*generator.Record{l.gen.Entry(t), l.gen.Exit(t)}
	for j := range t.Gantries {
		records = append(records, l.gen.Gantry(t, j))
	}
	records = append(records, l.gen.Path(t))
	for j := range t.PathDetails {
		records = append(records, l.gen.PathDetail(t, j))
	}
	for _, rec := range records {
		if _, err := l.emit(ctx, res, rec); err != nil {
			return nil, err
		}
	}

	var keys []generator.ReportKey
	for _, iv := range t.Intervals {
		if _, err := l.emit(ctx, res, l.gen.SplitDetail(t, iv)); err != nil {
			return nil, err
		}
		rec, key := l.gen.ClearResult(t, iv, l.gen.PickSection(res.Sections))
		ok, err := l.emit(ctx, res, rec)
		if err != nil {
			return nil, err
		}
		if ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (l *Linker) emit(ctx context.Context, res *Result, rec *generator.Record) (bool, error) {
	res.Attempted[rec.Table]++
	out, err := l.sink.InsertRow(ctx, rec)
	if err != nil {
		return false, err
	}
	return out.Inserted, nil
}
