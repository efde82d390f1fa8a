package mysql

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds MySQL-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Collation for the connection, utf8mb4_unicode_ci when empty.
	Collation string `mapstructure:"collation"`

	// Timeout for establishing connections, e.g. "10s".
	Timeout time.Duration `mapstructure:"timeout"`

	// ReadTimeout and WriteTimeout are I/O timeouts.
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// TLS is a registered TLS config name, or "true", "false", "skip-verify", "preferred".
	TLS string `mapstructure:"tls"`

	// MaxOpenConns bounds the pool. The run only ever uses one connection.
	MaxOpenConns int `mapstructure:"max_open_conns"`

	// Session holds system variables set on every new connection.
	Session map[string]string `mapstructure:"session"`
}

// ParseParams decodes adapter params.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid mysql params: %w", err)
	}
	return p, nil
}
