package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is read from the working directory when no env file is
// given.
const DefaultEnvFile = ".env"

// envFileKeys maps credential file keys onto config keys.
var envFileKeys = map[string]string{
	"DB_TYPE":     "target.type",
	"DB_HOST":     "target.host",
	"DB_PORT":     "target.port",
	"DB_NAME":     "target.database",
	"DB_USER":     "target.user",
	"DB_PASSWORD": "target.password",
	"DB_PATH":     "target.path",
}

// ReadEnvFile parses a key=value credential file and returns the known DB_*
// keys as flat config keys. A missing file yields an empty map; other keys
// are ignored.
func ReadEnvFile(path string) (map[string]any, error) {
	if path == "" {
		path = DefaultEnvFile
	}
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	out := make(map[string]any, len(envFileKeys))
	for k, v := range vals {
		key, ok := envFileKeys[strings.ToUpper(k)]
		if !ok || v == "" {
			continue
		}
		out[key] = v
	}
	return out, nil
}
