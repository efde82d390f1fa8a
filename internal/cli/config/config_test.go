package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/tollgen/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/tollgen/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/tollgen/pkg/adapters/sqlite"
)

// testFlags mirrors the root command's persistent flags.
func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("env-file", "", "")
	fs.String("schema", "", "")
	fs.String("type", "", "")
	fs.String("host", "", "")
	fs.Int("port", 0, "")
	fs.String("database", "", "")
	fs.String("path", "", "")
	fs.String("user", "", "")
	fs.String("password", "", "")
	fs.String("state", "", "")
	fs.String("log-level", "", "")
	fs.String("log-format", "", "")
	fs.BoolP("verbose", "v", false, "")
	return fs
}

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Target.Type)
	assert.Equal(t, "localhost", cfg.Target.Host)
	assert.Equal(t, 3306, cfg.Target.Port)
	assert.Equal(t, "tollgen", cfg.Target.Database)
	assert.Equal(t, "root", cfg.Target.Username)
	assert.Empty(t, cfg.Target.Password)
	assert.Equal(t, DefaultStateFile, cfg.StatePath)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_Precedence(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, dir, ".env", "DB_HOST=env-file-host\nDB_PORT=3310\nDB_USER=env-file-user\nDB_PASSWORD=pw\n")
	writeFile(t, dir, ConfigFileName, "target:\n  host: yaml-host\n  database: yaml_db\nlog_level: debug\n")
	t.Setenv("TOLLGEN_TARGET__DATABASE", "env_db")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--user", "flag-user"}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)
	assert.Equal(t, ConfigFileName, GetConfigFileUsed())
	assert.Equal(t, "yaml-host", cfg.Target.Host, "yaml overrides env file")
	assert.Equal(t, 3310, cfg.Target.Port, "env file overrides defaults")
	assert.Equal(t, "env_db", cfg.Target.Database, "environment overrides yaml")
	assert.Equal(t, "flag-user", cfg.Target.Username, "flags override everything")
	assert.Equal(t, "pw", cfg.Target.Password)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_EnvFileFlag(t *testing.T) {
	dir := inTempDir(t)
	path := writeFile(t, dir, "prod.env", "DB_TYPE=postgres\nDB_NAME=tolls\n")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--env-file", path}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, "tolls", cfg.Target.Database)
}

func TestLoadConfig_ExplicitConfigFile(t *testing.T) {
	dir := inTempDir(t)
	path := writeFile(t, dir, "other.yaml", "target:\n  type: sqlite\n  path: demo.db\nstate_path: ''\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "sqlite", cfg.Target.Type)
	assert.Equal(t, "demo.db", cfg.Target.Path)
	assert.Empty(t, cfg.StatePath)
}

func TestLoadConfig_StateFlag(t *testing.T) {
	inTempDir(t)
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--state", "runs.db", "-v"}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)
	assert.Equal(t, "runs.db", cfg.StatePath)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_PasswordExpansion(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, dir, ConfigFileName, "target:\n  password: ${TOLL_DB_SECRET}\n")
	t.Setenv("TOLL_DB_SECRET", "expanded")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "expanded", cfg.Target.Password)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		errSubstr string
	}{
		{name: "unknown adapter", args: []string{"--type", "oracle"}, errSubstr: "unknown adapter type"},
		{name: "bad log level", args: []string{"--log-level", "loud"}, errSubstr: "invalid log level"},
		{name: "bad log format", args: []string{"--log-format", "xml"}, errSubstr: "invalid log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			fs := testFlags()
			require.NoError(t, fs.Parse(tt.args))
			_, err := LoadConfig("", fs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	inTempDir(t)
	_, err := LoadConfig("does-not-exist.yaml", nil)
	assert.ErrorContains(t, err, "error reading config file")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TOLL_TEST_HOST", "db.example")
	t.Setenv("TOLL_TEST_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${TOLL_TEST_HOST}", "db.example"},
		{"tcp://${TOLL_TEST_HOST}:3306", "tcp://db.example:3306"},
		{"${TOLL_TEST_EMPTY}", ""},
		{"${TOLL_TEST_UNSET_VAR}", "${TOLL_TEST_UNSET_VAR}"},
		{"$TOLL_TEST_HOST", "$TOLL_TEST_HOST"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnvVars(tt.in))
		})
	}
}

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	def := GetConfig(ctx)
	assert.Equal(t, "mysql", def.Target.Type)
	assert.NotNil(t, GetLogger(ctx))

	cfg := &Config{Schema: "x.yaml"}
	assert.Same(t, cfg, GetConfig(WithConfig(ctx, cfg)))
}

func TestNewLogger(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	logger, err := NewLogger(&Config{LogLevel: "warn", LogFormat: LogFormatAuto}, f)
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"msg":"kept"`, "files get json")
}
