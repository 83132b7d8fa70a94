package db

import (
	"context"
	"database/sql"
)

// DBTX is the query surface the repositories run on. A *Store satisfies it
// through its embedded *sql.DB; queries must already be rebound for the
// store's dialect.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*Store)(nil)
	_ DBTX = (*sql.DB)(nil)
)
