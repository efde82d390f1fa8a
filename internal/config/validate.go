package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/tollgen/pkg/adapter"
)

// ValidateTarget checks the target against the adapter registry.
func ValidateTarget(t *adapter.Config) error {
	if t == nil || t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	if t.Port < 0 || t.Port > 65535 {
		return fmt.Errorf("target port %d is out of range", t.Port)
	}
	return nil
}
