// Package engine runs tollgen end to end: it loads the schema, connects the
// target adapter, creates tables, drives the linker inside one transaction
// and records the run in the state store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/internal/generator"
	"github.com/leapstack-labs/tollgen/internal/persist"
	"github.com/leapstack-labs/tollgen/internal/state"
	"github.com/leapstack-labs/tollgen/pkg/adapter"
	"github.com/leapstack-labs/tollgen/pkg/ontology"
)

// Engine orchestrates table creation and record generation for one target.
type Engine struct {
	// Database adapter (lazy initialized)
	db          adapter.Adapter
	dbConfig    adapter.Config
	dbConnected bool
	dbMu        sync.Mutex

	logger  *zap.Logger
	schema  *ontology.Schema
	store   state.Store
	genOpts []generator.Option
}

// Config holds engine configuration.
type Config struct {
	// Target is the database to write to.
	Target adapter.Config
	// Schema is the ontology to compile. Nil loads the embedded schema.
	Schema *ontology.Schema
	// StatePath is the run history database. Empty disables run history.
	StatePath string
	// Logger is optional; nil discards logs.
	Logger *zap.Logger
	// GeneratorOptions are passed to every generator the engine builds.
	GeneratorOptions []generator.Option
}

// New creates an engine. The target is only connected when an operation
// needs it.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	schema := cfg.Schema
	if schema == nil {
		var err error
		if schema, err = ontology.Default(); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		dbConfig: cfg.Target,
		logger:   logger,
		schema:   schema,
		genOpts:  cfg.GeneratorOptions,
	}

	if cfg.StatePath != "" {
		store := state.NewSQLiteStore(logger.Named("state"))
		if err := store.Open(ctx, cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		e.store = store
	}

	logger.Debug("engine initialized",
		zap.String("target", cfg.Target.Redacted()),
		zap.Int("object_types", len(schema.ObjectTypes)))
	return e, nil
}

// Schema returns the loaded schema.
func (e *Engine) Schema() *ontology.Schema { return e.schema }

// Target is the redacted connection target, also the run history key.
func (e *Engine) Target() string { return e.dbConfig.Redacted() }

// Close closes the adapter and the state store.
func (e *Engine) Close() error {
	var errs []error
	e.dbMu.Lock()
	if e.db != nil {
		errs = append(errs, e.db.Close())
		e.db = nil
		e.dbConnected = false
	}
	e.dbMu.Unlock()
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	return errors.Join(errs...)
}

// ensureDBConnected connects the target on first use. Failures are
// *persist.ConnectionError.
func (e *Engine) ensureDBConnected(ctx context.Context) (adapter.Adapter, error) {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return e.db, nil
	}

	e.logger.Info("connecting", zap.String("target", e.dbConfig.Redacted()))
	runner, err := persist.Connect(ctx, e.dbConfig, e.logger)
	if err != nil {
		return nil, err
	}
	e.db = runner.Adapter()
	e.dbConnected = true
	return e.db, nil
}

func (e *Engine) newRunner(ctx context.Context) (*persist.Runner, error) {
	db, err := e.ensureDBConnected(ctx)
	if err != nil {
		return nil, err
	}
	return persist.New(db, e.logger.Named("persist")), nil
}

// Init creates every table of the schema. Per-table failures are reported in
// the results; an error is returned only when the target is unreachable.
func (e *Engine) Init(ctx context.Context) ([]persist.TableResult, error) {
	runner, err := e.newRunner(ctx)
	if err != nil {
		return nil, err
	}
	return e.createTables(ctx, runner)
}

func (e *Engine) createTables(ctx context.Context, runner *persist.Runner) ([]persist.TableResult, error) {
	e.logger.Info("creating tables", zap.Int("count", len(e.schema.ObjectTypes)))
	results := runner.CreateTables(ctx, e.schema.ObjectTypes)
	for _, r := range results {
		if r.Err != nil && adapter.IsConnectionError(runner.Adapter(), r.Err) {
			return results, &persist.ConnectionError{Target: e.Target(), Err: r.Err}
		}
	}
	return results, nil
}

// Stats returns the current row count of every schema table.
func (e *Engine) Stats(ctx context.Context) ([]persist.TableCount, error) {
	runner, err := e.newRunner(ctx)
	if err != nil {
		return nil, err
	}
	return runner.Counts(ctx, e.schema.TableNames()), nil
}

// Runs lists recent runs from the state store.
func (e *Engine) Runs(ctx context.Context, limit int) ([]*state.Run, error) {
	if e.store == nil {
		return nil, errors.New("run history is disabled")
	}
	return e.store.ListRuns(ctx, limit)
}
