// Package sqlite provides a file or in-memory SQLite adapter backed by the
// pure-Go modernc driver. It is the zero-setup target for local runs and
// tests.
package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/tollgen/pkg/adapter"
	"github.com/leapstack-labs/tollgen/pkg/dialect"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
func New(logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, SQLDialect: dialect.SQLite},
	}
}

// Connect opens the database at cfg.Path (cfg.Database when Path is empty).
// An empty path or ":memory:" opens an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	a.Cfg = cfg
	path := cfg.Path
	if path == "" {
		path = cfg.Database
	}
	if err := a.Open(ctx, "sqlite", buildSQLiteDSN(path, cfg.Options)); err != nil {
		return err
	}
	// One connection keeps in-memory databases alive and serialises writers.
	a.DB.SetMaxOpenConns(1)
	a.Logger.Debug("opened sqlite database", zap.String("path", displayPath(path)))
	return nil
}

// buildSQLiteDSN appends pragmas. Options are applied as extra pragmas,
// e.g. {"journal_mode": "WAL"}.
func buildSQLiteDSN(path string, options map[string]string) string {
	if path == "" {
		path = MemoryPath
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	for k, v := range options {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", k, v))
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

func displayPath(path string) string {
	if path == "" {
		return MemoryPath
	}
	return path
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
