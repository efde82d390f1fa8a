package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{name: "default version", version: "0.1.0", wantOut: []string{"tollgen v0.1.0", "commit abc123"}},
		{name: "dev version", version: "dev", wantOut: []string{"tollgen vdev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version, "abc123", "2026-10-19")
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			assert.NoError(t, cmd.Execute())
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewGenerateCommand(t *testing.T) {
	cmd := NewGenerateCommand()

	assert.Equal(t, "generate", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.Equal(t, []string{"gen"}, cmd.Aliases)

	for _, flag := range []string{"trips", "start", "seed", "sections", "report-limit", "progress", "table"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "10", cmd.Flags().Lookup("trips").DefValue)
}

func TestNewDDLCommand(t *testing.T) {
	cmd := NewDDLCommand()

	assert.Equal(t, "ddl [object-type...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("dialect"))
}

func TestSimpleCommands(t *testing.T) {
	assert.Equal(t, "schema [object-type]", NewSchemaCommand().Use)
	assert.Equal(t, "init", NewInitCommand().Use)
	assert.Equal(t, "stats", NewStatsCommand().Use)

	runs := NewRunsCommand()
	assert.Equal(t, "runs", runs.Use)
	assert.Equal(t, "20", runs.Flags().Lookup("limit").DefValue)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123abcd", shortID("0123abcd-4567-89ef"))
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "", shortID(""))
}
