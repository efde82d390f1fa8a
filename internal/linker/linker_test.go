package linker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/leapstack-labs/tollgen/internal/generator"
	"github.com/leapstack-labs/tollgen/internal/persist"
)

// fakeSink stores records in memory. reject marks rows as skipped; failAt
// returns a fatal error on the n-th call (1-based).
type fakeSink struct {
	records []*generator.Record
	reject  func(*generator.Record) bool
	failAt  int
	calls   int
}

var errFatal = &persist.TransactionError{Op: "insert", Err: errors.New("bad connection")}

func (s *fakeSink) InsertRow(_ context.Context, rec *generator.Record) (persist.RowResult, error) {
	s.calls++
	if s.failAt > 0 && s.calls == s.failAt {
		return persist.RowResult{Table: rec.Table}, errFatal
	}
	if s.reject != nil && s.reject(rec) {
		return persist.RowResult{Table: rec.Table, Err: &persist.RowInsertError{Table: rec.Table, Err: errors.New("rejected")}}, nil
	}
	s.records = append(s.records, rec)
	return persist.RowResult{Table: rec.Table, Inserted: true}, nil
}

func (s *fakeSink) byTable() map[string][]*generator.Record {
	m := make(map[string][]*generator.Record)
	for _, r := range s.records {
		m[r.Table] = append(m[r.Table], r)
	}
	return m
}

func newTestLinker(t *testing.T, sink Sink) *Linker {
	gen := generator.New(2024, generator.WithClock(func() time.Time {
		return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	}), generator.WithLocation(time.UTC))
	return New(gen, sink, zaptest.NewLogger(t))
}

func TestRun_Counts(t *testing.T) {
	sink := &fakeSink{}
	res, err := newTestLinker(t, sink).Run(context.Background(), Plan{Trips: 10})
	require.NoError(t, err)

	got := sink.byTable()
	assert.Equal(t, 10, res.Trips)
	assert.Len(t, got[generator.TableSection], DefaultSections)
	assert.Len(t, got[generator.TableEntry], 10)
	assert.Len(t, got[generator.TableExit], 10)
	assert.Len(t, got[generator.TablePath], 10)
	assert.GreaterOrEqual(t, len(got[generator.TableGantry]), 20)
	assert.LessOrEqual(t, len(got[generator.TableGantry]), 30)
	assert.GreaterOrEqual(t, len(got[generator.TablePathDetail]), 20)
	assert.LessOrEqual(t, len(got[generator.TablePathDetail]), 30)
	assert.GreaterOrEqual(t, len(got[generator.TableSplitDetail]), 30)
	assert.LessOrEqual(t, len(got[generator.TableSplitDetail]), 50)
	assert.Len(t, got[generator.TableClearResult], len(got[generator.TableSplitDetail]))
	assert.GreaterOrEqual(t, len(got[generator.TableClearReport]), 1)
	assert.LessOrEqual(t, len(got[generator.TableClearReport]), DefaultReportLimit)

	assert.Equal(t, 10, res.Attempted[generator.TableEntry])
}

func TestRun_Order(t *testing.T) {
	sink := &fakeSink{}
	_, err := newTestLinker(t, sink).Run(context.Background(), Plan{Trips: 2, Sections: 2})
	require.NoError(t, err)

	var tables []string
	for _, r := range sink.records {
		if len(tables) == 0 || tables[len(tables)-1] != r.Table {
			tables = append(tables, r.Table)
		}
	}
	// Sections, then per trip entry, exit, gantries, path, path details and
	// alternating split/clear rows, then reports.
	assert.Equal(t, generator.TableSection, tables[0])
	assert.Equal(t, generator.TableEntry, tables[1])
	assert.Equal(t, generator.TableExit, tables[2])
	assert.Equal(t, generator.TableGantry, tables[3])
	assert.Equal(t, generator.TablePath, tables[4])
	assert.Equal(t, generator.TablePathDetail, tables[5])
	assert.Equal(t, generator.TableSplitDetail, tables[6])
	assert.Equal(t, generator.TableClearResult, tables[7])
	assert.Equal(t, generator.TableClearReport, tables[len(tables)-1])
}

func TestRun_SharedIdentifiers(t *testing.T) {
	sink := &fakeSink{}
	res, err := newTestLinker(t, sink).Run(context.Background(), Plan{Trips: 3, Start: 41})
	require.NoError(t, err)

	sections := map[string]bool{}
	for _, s := range res.Sections {
		sections[s.RoadID] = true
	}

	exits := map[string]string{}
	for _, r := range sink.byTable()[generator.TableExit] {
		exits[r.String("pass_id")] = r.String("id")
	}
	assert.Len(t, exits, 3)
	assert.Contains(t, exits, "PASS0000000041")
	assert.Contains(t, exits, "PASS0000000043")

	for _, r := range sink.records {
		switch r.Table {
		case generator.TableSplitDetail, generator.TableClearResult:
			pass := r.String("pass_id")
			require.Contains(t, exits, pass)
			assert.Equal(t, exits[pass], r.String("transaction_id"))
		case generator.TableEntry, generator.TableGantry, generator.TablePath, generator.TablePathDetail:
			assert.Contains(t, exits, r.String("pass_id"))
		}
		if r.Table == generator.TableClearResult {
			assert.True(t, sections[r.String("road_id")], "road comes from the section pool")
		}
	}
}

func TestRun_ReportKeysFromStoredClearResults(t *testing.T) {
	sink := &fakeSink{reject: func(r *generator.Record) bool {
		return r.Table == generator.TableClearResult
	}}
	res, err := newTestLinker(t, sink).Run(context.Background(), Plan{Trips: 5})
	require.NoError(t, err)

	assert.Empty(t, res.ReportKeys)
	assert.Empty(t, sink.byTable()[generator.TableClearReport])
	assert.Len(t, sink.byTable()[generator.TableEntry], 5, "rejected rows do not stop the run")
}

func TestRun_ReportLimit(t *testing.T) {
	sink := &fakeSink{}
	res, err := newTestLinker(t, sink).Run(context.Background(), Plan{Trips: 50, ReportLimit: 2})
	require.NoError(t, err)

	assert.Len(t, res.ReportKeys, 2)
	reports := sink.byTable()[generator.TableClearReport]
	require.Len(t, reports, 2)
	assert.Equal(t, "RPT0000000010", reports[0].String("id"))
	assert.Equal(t, res.ReportKeys[1].RoadID, reports[1].String("road_id"))
}

func TestRun_FatalErrorStops(t *testing.T) {
	sink := &fakeSink{failAt: 8}
	res, err := newTestLinker(t, sink).Run(context.Background(), Plan{Trips: 10})

	var txErr *persist.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.ErrorContains(t, err, "trip 1")
	assert.Equal(t, 0, res.Trips)
	assert.Equal(t, 8, sink.calls)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &fakeSink{}
	_, err := newTestLinker(t, sink).Run(ctx, Plan{Trips: 3})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, sink.records, DefaultSections)
}

func TestPlan_Normalize(t *testing.T) {
	p := Plan{Trips: 3}.normalize()
	assert.Equal(t, Plan{Trips: 3, Start: 1, Sections: 5, ReportLimit: 5, Progress: 100}, p)

	p = Plan{Trips: 3, Start: 7, Sections: 2, ReportLimit: 9, Progress: 1}.normalize()
	assert.Equal(t, 7, p.Start)
	assert.Equal(t, 2, p.Sections)
	assert.Equal(t, 9, p.ReportLimit)
}
