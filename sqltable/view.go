// Package sqltable reads SQL query results as retable.View tables.
package sqltable

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/hemolink/retable"
)

// Queryer is implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// QueryView runs query with args and returns
// the result rows as view with the given title.
func QueryView(ctx context.Context, db Queryer, title, query string, args ...any) (*retable.AnyValuesView, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("can't query %q: %w", title, err)
	}
	view, err := ScanRowsAsView(ctx, rows)
	if err != nil {
		return nil, err
	}
	view.Tit = title
	return view, nil
}

// ScanRowsAsView scans all rows into a view
// with the column names of rows and closes rows.
// Byte slices are copied, other values are kept
// as returned by the driver.
func ScanRowsAsView(ctx context.Context, rows Rows) (view *retable.AnyValuesView, err error) {
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	view = &retable.AnyValuesView{Cols: columns}

	for rows.Next() {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		scannedValues := make([]any, len(columns))
		valueScanners := make([]any, len(columns))
		for i := range valueScanners {
			valueScanners[i] = valueScanner{&scannedValues[i]}
		}
		if err = rows.Scan(valueScanners...); err != nil {
			return nil, err
		}
		view.Rows = append(view.Rows, scannedValues)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return view, nil
}

var _ sql.Scanner = new(valueScanner)

type valueScanner struct {
	dest *any
}

func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		src = slices.Clone(b)
	}
	*s.dest = src
	return nil
}
