// Package mysql provides the MySQL adapter, the primary storage target for
// generated toll records.
package mysql

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/pkg/adapter"
	"github.com/leapstack-labs/tollgen/pkg/dialect"
)

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
// If logger is nil, a no-op logger is used.
func New(logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, SQLDialect: dialect.MySQL},
	}
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}
	dsn := buildMySQLDSN(cfg, params)

	a.Cfg = cfg
	a.Logger.Debug("connecting to mysql",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database))

	if err := a.Open(ctx, "mysql", dsn); err != nil {
		return err
	}
	if params.MaxOpenConns > 0 {
		a.DB.SetMaxOpenConns(params.MaxOpenConns)
	}
	return nil
}

// IsConnectionError recognises the driver's dropped-connection errors.
func (a *Adapter) IsConnectionError(err error) bool {
	if errors.Is(err, mysqldrv.ErrInvalidConn) || errors.Is(err, mysqldrv.ErrPktSync) || errors.Is(err, mysqldrv.ErrPktSyncMul) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// buildMySQLDSN constructs a go-sql-driver DSN. Options are passed through
// as session variables.
func buildMySQLDSN(cfg adapter.Config, p *Params) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := mysqldrv.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Collation = "utf8mb4_unicode_ci"
	mc.Timeout = 10 * time.Second

	if p.Collation != "" {
		mc.Collation = p.Collation
	}
	if p.Timeout > 0 {
		mc.Timeout = p.Timeout
	}
	mc.ReadTimeout = p.ReadTimeout
	mc.WriteTimeout = p.WriteTimeout
	if p.TLS != "" {
		mc.TLSConfig = p.TLS
	}

	if len(p.Session)+len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(p.Session)+len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
		for k, v := range p.Session {
			mc.Params[k] = v
		}
	}

	return mc.FormatDSN()
}

// Ensure Adapter implements the adapter interfaces.
var (
	_ adapter.Adapter                   = (*Adapter)(nil)
	_ adapter.ConnectionErrorClassifier = (*Adapter)(nil)
)
