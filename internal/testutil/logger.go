// Package testutil provides test utilities for structured logging.
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// NewObservedLogger returns a debug-level logger that writes to t.Log()
// and records every entry for assertions.
// Logs only appear on test failure or when running with -v.
func NewObservedLogger(t testing.TB) (*zap.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, core)
	})))
	return logger, logs
}

// Fields flattens the context fields of an observed entry into a map.
func Fields(e observer.LoggedEntry) map[string]any {
	return e.ContextMap()
}
