package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/tollgen/internal/cli/config"
)

// run executes the root command in an empty working directory so that no
// tollgen.yaml or .env is picked up.
func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)
	config.ResetConfig()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-format", "json", "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRoot_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"version", "schema", "ddl", "init", "generate", "stats", "runs", "completion"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"config", "env-file", "schema", "type", "host", "port", "database", "user", "password", "state", "log-level", "log-format", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "EntryTransaction")
	assert.Contains(t, out, "Entry lane transaction")

	out, _, err = run(t, t.TempDir(), "schema", "EntryTransaction")
	require.NoError(t, err)
	assert.Contains(t, out, "pass_id")

	_, _, err = run(t, t.TempDir(), "schema", "Nope")
	assert.ErrorContains(t, err, "unknown object type")
}

func TestDDLCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "configured target", args: []string{"ddl", "EntryTransaction"}, want: "CREATE TABLE IF NOT EXISTS `EntryTransaction`"},
		{name: "postgres", args: []string{"ddl", "--dialect", "postgres", "EntryTransaction"}, want: `CREATE TABLE IF NOT EXISTS "EntryTransaction"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, t.TempDir(), tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.NotContains(t, out, "ExitTransaction")
		})
	}

	_, _, err := run(t, t.TempDir(), "ddl", "--dialect", "oracle")
	assert.Error(t, err)
}

func TestGenerateCommand_SQLite(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "toll.db")
	state := filepath.Join(dir, "state", "runs.db")
	base := []string{"--type", "sqlite", "--database", db, "--state", state}

	out, _, err := run(t, dir, append([]string{"generate", "--trips", "4", "--seed", "5"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Entry lane transaction: 4")
	assert.Equal(t, 9, strings.Count(out, "\n"), "one line per table")

	out, _, err = run(t, dir, append([]string{"stats"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "EntryTransaction")

	out, _, err = run(t, dir, append([]string{"runs"}, base...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "completed")
}

func TestGenerateCommand_UnknownType(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "generate", "--type", "oracle")
	assert.ErrorContains(t, err, "unknown adapter type")
}

func TestRunsCommand_Disabled(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, dir, "runs", "--type", "sqlite", "--database", filepath.Join(dir, "x.db"), "--state", "")
	assert.ErrorContains(t, err, "run history is disabled")
}
