package sqlite

import (
	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/pkg/adapter"
)

func init() {
	adapter.Register("sqlite", func(l *zap.Logger) adapter.Adapter { return New(l) })
}
