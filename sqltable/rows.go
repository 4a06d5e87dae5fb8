package sqltable

import "database/sql"

var _ Rows = &sql.Rows{}

// Rows is the subset of *sql.Rows used by ScanRowsAsView.
type Rows interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
	Close() error
	Next() bool
	Err() error
}
