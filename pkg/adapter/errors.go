package adapter

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
)

// ConnectionErrorClassifier is implemented by adapters that recognise
// driver-specific connection failures.
type ConnectionErrorClassifier interface {
	IsConnectionError(err error) bool
}

// IsConnectionError reports whether err leaves the connection or the open
// transaction unusable. Constraint violations and type errors are not
// connection errors.
func IsConnectionError(a Adapter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, sql.ErrTxDone),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	if c, ok := a.(ConnectionErrorClassifier); ok {
		return c.IsConnectionError(err)
	}
	return false
}
