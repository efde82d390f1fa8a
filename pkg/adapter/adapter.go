// Package adapter provides the database adapter contract used by the
// persistence runner.
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves from init().
package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/leapstack-labs/tollgen/pkg/dialect"
)

// Config holds configuration for connecting to a database.
type Config struct {
	Type     string            `koanf:"type"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Database string            `koanf:"database"`
	Username string            `koanf:"user"`
	Password string            `koanf:"password"`
	Options  map[string]string `koanf:"options"`
	Params   map[string]any    `koanf:"params"`
}

// Redacted renders the connection target as a URL with the password masked.
// It is the only form of a Config that should be logged.
func (c Config) Redacted() string {
	if c.Path != "" && c.Host == "" {
		return c.Type + "://" + c.Path
	}
	u := url.URL{Scheme: c.Type, Path: "/" + c.Database}
	u.Host = c.Host
	if c.Port > 0 {
		u.Host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, "xxxxx")
		} else {
			u.User = url.User(c.Username)
		}
	}
	return u.String()
}

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string, args ...any) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string, args ...any) (*sql.Rows, error)

	// BeginTx starts a transaction on the underlying pool.
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)

	// CountRows returns SELECT COUNT(*) for a table.
	CountRows(ctx context.Context, table string) (int64, error)

	// Dialect returns the DDL dialect for this adapter.
	Dialect() *dialect.Dialect
}

// ErrNotConnected is returned by adapter methods called before Connect.
var ErrNotConnected = fmt.Errorf("database connection not established")
