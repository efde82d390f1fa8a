package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tollgen/pkg/adapter"
	"github.com/leapstack-labs/tollgen/pkg/dialect"
)

func TestBuildMySQLDSN(t *testing.T) {
	tests := []struct {
		name   string
		config adapter.Config
		params *Params
		check  func(t *testing.T, mc *mysqldrv.Config)
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "db.local",
				Port:     3307,
				Database: "toll",
				Username: "root",
				Password: "p@ss:word",
			},
			params: &Params{},
			check: func(t *testing.T, mc *mysqldrv.Config) {
				assert.Equal(t, "tcp", mc.Net)
				assert.Equal(t, "db.local:3307", mc.Addr)
				assert.Equal(t, "toll", mc.DBName)
				assert.Equal(t, "root", mc.User)
				assert.Equal(t, "p@ss:word", mc.Passwd)
				assert.True(t, mc.ParseTime)
				assert.Equal(t, "utf8mb4_unicode_ci", mc.Collation)
				assert.Equal(t, 10*time.Second, mc.Timeout)
			},
		},
		{
			name:   "defaults",
			config: adapter.Config{Database: "toll"},
			params: &Params{},
			check: func(t *testing.T, mc *mysqldrv.Config) {
				assert.Equal(t, "localhost:3306", mc.Addr)
				assert.Empty(t, mc.Params)
			},
		},
		{
			name: "params and options",
			config: adapter.Config{
				Database: "toll",
				Options:  map[string]string{"sql_mode": "'STRICT_ALL_TABLES'"},
			},
			params: &Params{
				Collation: "utf8mb4_bin",
				Timeout:   3 * time.Second,
				Session:   map[string]string{"time_zone": "'+08:00'"},
			},
			check: func(t *testing.T, mc *mysqldrv.Config) {
				assert.Equal(t, "utf8mb4_bin", mc.Collation)
				assert.Equal(t, 3*time.Second, mc.Timeout)
				assert.Equal(t, "'STRICT_ALL_TABLES'", mc.Params["sql_mode"])
				assert.Equal(t, "'+08:00'", mc.Params["time_zone"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := buildMySQLDSN(tt.config, tt.params)
			mc, err := mysqldrv.ParseDSN(dsn)
			require.NoError(t, err, "dsn %q should parse", dsn)
			tt.check(t, mc)
		})
	}
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		want    *Params
		wantErr bool
	}{
		{
			name:  "nil params returns empty struct",
			input: nil,
			want:  &Params{},
		},
		{
			name: "durations from strings",
			input: map[string]any{
				"timeout":        "5s",
				"read_timeout":   "30s",
				"max_open_conns": "4",
			},
			want: &Params{
				Timeout:      5 * time.Second,
				ReadTimeout:  30 * time.Second,
				MaxOpenConns: 4,
			},
		},
		{
			name: "session variables",
			input: map[string]any{
				"session": map[string]any{"time_zone": "'+08:00'"},
			},
			want: &Params{Session: map[string]string{"time_zone": "'+08:00'"}},
		},
		{
			name:    "unknown key",
			input:   map[string]any{"engine": "myisam"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	a := New(nil)
	require.NotNil(t, a)
	assert.Same(t, dialect.MySQL, a.Dialect())
	assert.False(t, a.IsConnected())
}

func TestAdapter_NotConnected(t *testing.T) {
	a := New(nil)
	ctx := context.Background()

	assert.ErrorIs(t, a.Exec(ctx, "SELECT 1"), adapter.ErrNotConnected)
	_, err := a.CountRows(ctx, "Path")
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	assert.NoError(t, a.Close())
}

func TestAdapter_IsConnectionError(t *testing.T) {
	a := New(nil)

	assert.True(t, a.IsConnectionError(fmt.Errorf("insert: %w", mysqldrv.ErrInvalidConn)))
	assert.True(t, adapter.IsConnectionError(a, mysqldrv.ErrInvalidConn))
	assert.False(t, adapter.IsConnectionError(a, &mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, a.IsConnectionError(errors.New("boom")))
}

func TestAdapter_Registry(t *testing.T) {
	assert.True(t, adapter.IsRegistered("mysql"))

	a, err := adapter.NewAdapter(adapter.Config{Type: "mysql"}, nil)
	require.NoError(t, err)
	_, ok := a.(*Adapter)
	assert.True(t, ok)
}
