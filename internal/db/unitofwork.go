package db

import (
	"context"
	"fmt"
)

// UnitOfWork manages transactional boundaries. The callback receives a DBTX
// backed by a transaction; callers create tx-scoped repositories from it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLUnitOfWork implements UnitOfWork using database/sql transactions.
type SQLUnitOfWork struct {
	db *DB
}

// NewUnitOfWork creates a UnitOfWork backed by the given database.
func NewUnitOfWork(db *DB) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db}
}

func (u *SQLUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	t, err := u.db.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", Classify(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = t.tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, t); err != nil {
		if rbErr := t.tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", Classify(err))
	}
	return nil
}
