// Package persist creates the generated tables and writes records inside a
// single run transaction. Each row is isolated by a savepoint so that a
// rejected row is skipped without losing the rows around it.
package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/internal/generator"
	"github.com/leapstack-labs/tollgen/pkg/adapter"
	"github.com/leapstack-labs/tollgen/pkg/ddl"
	"github.com/leapstack-labs/tollgen/pkg/dialect"
	"github.com/leapstack-labs/tollgen/pkg/ontology"
)

const savepoint = "sp_row"

// Runner owns the adapter and the run transaction. It is not safe for
// concurrent use.
type Runner struct {
	adapter adapter.Adapter
	dialect *dialect.Dialect
	logger  *zap.Logger
	tx      *sql.Tx
	report  *Report
	// insert statements by table and column list
	stmts map[string]string
}

// New returns a runner over a connected adapter.
func New(a adapter.Adapter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		adapter: a,
		dialect: a.Dialect(),
		logger:  logger,
		report:  newReport(),
		stmts:   make(map[string]string),
	}
}

// Connect builds the adapter for cfg and connects it. Any failure is a
// *ConnectionError.
func Connect(ctx context.Context, cfg adapter.Config, logger *zap.Logger) (*Runner, error) {
	a, err := adapter.NewAdapter(cfg, logger)
	if err != nil {
		return nil, &ConnectionError{Target: cfg.Redacted(), Err: err}
	}
	if err := a.Connect(ctx, cfg); err != nil {
		return nil, &ConnectionError{Target: cfg.Redacted(), Err: err}
	}
	return New(a, logger), nil
}

// Adapter returns the underlying adapter.
func (r *Runner) Adapter() adapter.Adapter { return r.adapter }

// Report returns the outcomes collected so far.
func (r *Runner) Report() *Report { return r.report }

// Close rolls back any open transaction and closes the adapter.
func (r *Runner) Close() error {
	rbErr := r.Rollback()
	return errors.Join(rbErr, r.adapter.Close())
}

// CreateTables runs the DDL for each object type outside the run
// transaction. A failing table is logged and reported; the others still
// get created.
func (r *Runner) CreateTables(ctx context.Context, objectTypes []ontology.ObjectType) []TableResult {
	results := make([]TableResult, 0, len(objectTypes))
	for i := range objectTypes {
		ot := &objectTypes[i]
		res := r.createTable(ctx, ot)
		if res.Err != nil {
			r.logger.Warn("table creation failed",
				zap.String("table", ot.Name),
				zap.String("statement", res.Err.Statement),
				zap.Error(res.Err.Err))
		} else {
			r.logger.Info("table ready",
				zap.String("table", ot.Name),
				zap.Strings("primary_key", res.PrimaryKey))
		}
		results = append(results, res)
	}
	r.report.Tables = append(r.report.Tables, results...)
	return results
}

func (r *Runner) createTable(ctx context.Context, ot *ontology.ObjectType) TableResult {
	t, err := ddl.Build(ot, r.dialect)
	if err != nil {
		return TableResult{Table: ot.Name, Err: &TableCreationError{Table: ot.Name, Err: err}}
	}
	res := TableResult{Table: ot.Name, PrimaryKey: t.PrimaryKey}
	for _, stmt := range t.Statements() {
		if err := r.adapter.Exec(ctx, stmt); err != nil {
			res.Err = &TableCreationError{Table: ot.Name, Statement: stmt, Err: err}
			return res
		}
	}
	return res
}

// Begin opens the run transaction.
func (r *Runner) Begin(ctx context.Context) error {
	if r.tx != nil {
		return &TransactionError{Op: "begin", Err: errors.New("transaction already open")}
	}
	tx, err := r.adapter.BeginTx(ctx, nil)
	if err != nil {
		return &TransactionError{Op: "begin", Err: err}
	}
	r.tx = tx
	return nil
}

// InsertRow writes rec inside the run transaction. Nil fields are omitted.
//
// A row the database rejects is rolled back to its savepoint and reported in
// the returned RowResult with a nil error. An error return is always a
// *TransactionError: the connection or transaction is gone, the savepoint
// bookkeeping failed, or the dialect has no savepoints to recover with.
func (r *Runner) InsertRow(ctx context.Context, rec *generator.Record) (RowResult, error) {
	if r.tx == nil {
		return RowResult{}, &TransactionError{Op: "insert", Table: rec.Table, Err: ErrNoTransaction}
	}
	row := rec.Compact()
	res := RowResult{Table: row.Table}
	if len(row.Fields) == 0 {
		res.Err = &RowInsertError{Table: row.Table, Payload: row.Map(), Err: errors.New("record has no values")}
		r.reject(res)
		return res, nil
	}

	stmt := r.insertStatement(row)
	sp := r.dialect.SupportsSavepoints()

	if sp {
		if _, err := r.tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
			return res, &TransactionError{Op: "savepoint", Table: row.Table, Err: err}
		}
	}

	_, err := r.tx.ExecContext(ctx, stmt, row.Values()...)
	if err == nil {
		if sp {
			if _, err := r.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
				return res, &TransactionError{Op: "release savepoint", Table: row.Table, Err: err}
			}
		}
		res.Inserted = true
		r.report.record(res)
		return res, nil
	}

	if adapter.IsConnectionError(r.adapter, err) {
		return res, &TransactionError{Op: "insert", Table: row.Table, Err: err}
	}
	if !sp {
		return res, &TransactionError{
			Op:    "insert",
			Table: row.Table,
			Err:   fmt.Errorf("%s cannot recover a failed row without savepoints: %w", r.dialect.Name, err),
		}
	}
	if _, rbErr := r.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rbErr != nil {
		return res, &TransactionError{Op: "rollback to savepoint", Table: row.Table, Err: errors.Join(rbErr, err)}
	}
	// Postgres keeps the savepoint after a rollback to it.
	if _, relErr := r.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); relErr != nil {
		return res, &TransactionError{Op: "release savepoint", Table: row.Table, Err: relErr}
	}

	res.Err = &RowInsertError{Table: row.Table, Statement: stmt, Payload: row.Map(), Err: err}
	r.reject(res)
	return res, nil
}

func (r *Runner) reject(res RowResult) {
	r.report.record(res)
	r.logger.Warn("row skipped",
		zap.String("table", res.Table),
		zap.String("statement", res.Err.Statement),
		zap.Any("payload", res.Err.Payload),
		zap.Error(res.Err.Err))
}

func (r *Runner) insertStatement(rec *generator.Record) string {
	cols := rec.Columns()
	key := rec.Table + "\x00" + strings.Join(cols, "\x00")
	if stmt, ok := r.stmts[key]; ok {
		return stmt
	}

	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = r.dialect.QuoteIdentifier(c)
		params[i] = r.dialect.FormatPlaceholder(i + 1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.dialect.QuoteIdentifier(rec.Table), strings.Join(quoted, ", "), strings.Join(params, ", "))
	r.stmts[key] = stmt
	return stmt
}

// Finalize commits the run transaction and counts the rows of tables.
func (r *Runner) Finalize(ctx context.Context, tables []string) (*Summary, error) {
	if r.tx == nil {
		return nil, &TransactionError{Op: "commit", Err: ErrNoTransaction}
	}
	tx := r.tx
	r.tx = nil
	if err := tx.Commit(); err != nil {
		return nil, &TransactionError{Op: "commit", Err: err}
	}
	r.logger.Info("transaction committed",
		zap.Int("inserted", r.report.TotalInserted()),
		zap.Int("skipped", r.report.TotalSkipped()))

	s := &Summary{Report: r.report}
	for _, table := range tables {
		s.Counts = append(s.Counts, r.count(ctx, table))
	}
	return s, nil
}

// Counts queries COUNT(*) for each table without touching the transaction.
func (r *Runner) Counts(ctx context.Context, tables []string) []TableCount {
	out := make([]TableCount, len(tables))
	for i, table := range tables {
		out[i] = r.count(ctx, table)
	}
	return out
}

func (r *Runner) count(ctx context.Context, table string) TableCount {
	n, err := r.adapter.CountRows(ctx, table)
	if err != nil {
		r.logger.Warn("count failed", zap.String("table", table), zap.Error(err))
		return TableCount{Table: table, Rows: -1, Err: err}
	}
	return TableCount{Table: table, Rows: n}
}

// Rollback aborts the run transaction. It is a no-op without one.
func (r *Runner) Rollback() error {
	if r.tx == nil {
		return nil
	}
	tx := r.tx
	r.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return &TransactionError{Op: "rollback", Err: err}
	}
	r.logger.Warn("transaction rolled back")
	return nil
}
