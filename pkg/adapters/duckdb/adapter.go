// Package duckdb provides a DuckDB adapter for file-based analytical runs.
//
// DuckDB has no savepoints, so a failing insert aborts the run transaction.
package duckdb

import (
	"context"
	"fmt"
	"sort"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/pkg/adapter"
	"github.com/leapstack-labs/tollgen/pkg/dialect"
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
func New(logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, SQLDialect: dialect.DuckDB},
	}
}

// Connect establishes a connection to DuckDB.
// An empty path opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}

	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}

	a.Cfg = cfg
	if err := a.Open(ctx, "duckdb", path); err != nil {
		return err
	}

	for _, stmt := range settingStatements(params.Settings) {
		if err := a.Exec(ctx, stmt); err != nil {
			_ = a.Close()
			return fmt.Errorf("failed to apply duckdb setting: %w", err)
		}
	}
	return nil
}

// settingStatements renders SET statements in key order.
func settingStatements(settings map[string]string) []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stmts := make([]string, len(keys))
	for i, k := range keys {
		stmts[i] = fmt.Sprintf("SET %s = %s", k, dialect.DuckDB.QuoteString(settings[k]))
	}
	return stmts
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
