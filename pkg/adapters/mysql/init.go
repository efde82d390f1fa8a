package mysql

import (
	"go.uber.org/zap"

	"github.com/leapstack-labs/tollgen/pkg/adapter"
)

func init() {
	adapter.Register("mysql", func(l *zap.Logger) adapter.Adapter { return New(l) })
}
