// Package config holds the target defaults and the credential env file
// loader shared by the CLI and the tests.
package config

import (
	"strings"

	"github.com/leapstack-labs/tollgen/pkg/adapter"
)

// Default connection values, used when neither the env file, the config
// file, the environment nor flags set them.
const (
	DefaultType     = "mysql"
	DefaultHost     = "localhost"
	DefaultDatabase = "tollgen"
	DefaultUser     = "root"
	DefaultFileDB   = "tollgen.db"
)

// DefaultPort returns the well-known port of a network target type, or 0.
func DefaultPort(dbType string) int {
	switch dbType {
	case "mysql":
		return 3306
	case "postgres":
		return 5432
	}
	return 0
}

// IsFileBased reports whether targets of this type are a local file.
func IsFileBased(dbType string) bool {
	return dbType == "sqlite" || dbType == "duckdb"
}

// ApplyTargetDefaults fills unset fields of t based on its type.
func ApplyTargetDefaults(t *adapter.Config) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(t.Type)
	if t.Type == "" {
		t.Type = DefaultType
	}

	if IsFileBased(t.Type) {
		if t.Path == "" {
			t.Path = t.Database
		}
		if t.Path == "" {
			t.Path = DefaultFileDB
		}
		return
	}

	if t.Host == "" {
		t.Host = DefaultHost
	}
	if t.Port == 0 {
		t.Port = DefaultPort(t.Type)
	}
	if t.Database == "" {
		t.Database = DefaultDatabase
	}
	if t.Username == "" {
		t.Username = DefaultUser
	}
}
