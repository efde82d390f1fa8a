package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/tollgen/pkg/adapter"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/tollgen/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/tollgen/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/tollgen/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/tollgen/pkg/adapters/sqlite"
)

func TestListAdapters(t *testing.T) {
	adapters := adapter.ListAdapters()

	for _, name := range []string{"duckdb", "mysql", "postgres", "sqlite"} {
		assert.Contains(t, adapters, name)
	}
}

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name        string
		adapterName string
		expected    bool
	}{
		{"mysql registered", "mysql", true},
		{"sqlite registered", "sqlite", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.IsRegistered(tt.adapterName))
		})
	}
}

func TestNewAdapter_DialectMatchesType(t *testing.T) {
	for _, name := range []string{"duckdb", "mysql", "postgres", "sqlite"} {
		t.Run(name, func(t *testing.T) {
			a, err := adapter.NewAdapter(adapter.Config{Type: name}, nil)
			assert.NoError(t, err)
			assert.Equal(t, name, a.Dialect().Name)
		})
	}
}
