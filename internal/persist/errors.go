package persist

import (
	"errors"
	"fmt"
)

// ErrNoTransaction is returned by InsertRow and Finalize before Begin.
var ErrNoTransaction = errors.New("no open transaction")

// ConnectionError means the target database could not be reached. It is
// fatal to the run.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot connect to %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TableCreationError reports a table whose DDL failed. The table is skipped
// and the run continues.
type TableCreationError struct {
	Table     string
	Statement string
	Err       error
}

func (e *TableCreationError) Error() string {
	return fmt.Sprintf("create table %s: %v", e.Table, e.Err)
}

func (e *TableCreationError) Unwrap() error { return e.Err }

// RowInsertError reports one rejected row with the statement and the
// payload that was sent. The row is skipped and the run continues.
type RowInsertError struct {
	Table     string
	Statement string
	Payload   map[string]any
	Err       error
}

func (e *RowInsertError) Error() string {
	return fmt.Sprintf("insert into %s: %v", e.Table, e.Err)
}

func (e *RowInsertError) Unwrap() error { return e.Err }

// TransactionError means the run transaction can no longer be trusted. The
// caller must roll back and stop.
type TransactionError struct {
	Op    string
	Table string
	Err   error
}

func (e *TransactionError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("transaction %s (%s): %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("transaction %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
