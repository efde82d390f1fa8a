// Package config loads tollgen CLI configuration.
//
// Sources are layered lowest to highest: built-in defaults, the DB_* keys
// of the credential env file, tollgen.yaml, TOLLGEN_ environment variables
// and finally flags that were explicitly set.
package config

import "github.com/leapstack-labs/tollgen/pkg/adapter"

// Config holds all CLI configuration options.
type Config struct {
	Target    adapter.Config `koanf:"target"`
	Schema    string         `koanf:"schema"`
	EnvFile   string         `koanf:"env_file"`
	StatePath string         `koanf:"state_path"`
	LogLevel  string         `koanf:"log_level"`
	LogFormat string         `koanf:"log_format"`
	Verbose   bool           `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultStateFile = ".tollgen/state.db"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "auto" // TTY=console, otherwise json
)

// Config file names, searched in the working directory.
const (
	ConfigFileName    = "tollgen.yaml"
	ConfigFileNameAlt = "tollgen.yml"
)

// EnvPrefix is the prefix of environment overrides. Nested keys use a
// double underscore: TOLLGEN_TARGET__HOST sets target.host.
const EnvPrefix = "TOLLGEN_"
