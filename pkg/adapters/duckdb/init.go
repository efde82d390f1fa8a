package duckdb

import (
	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/pkg/adapter"
)

func init() {
	adapter.Register("duckdb", func(l *zap.Logger) adapter.Adapter { return New(l) })
}
