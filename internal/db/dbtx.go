package db

import (
	"context"
	"database/sql"
)

// DBTX is the common interface satisfied by both *DB and the transaction
// handle passed to UnitOfWork callbacks. Repository implementations depend
// on this interface, enabling transactional composition.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*DB)(nil)
	_ DBTX = (*tx)(nil)
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
