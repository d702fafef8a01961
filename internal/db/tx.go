package db

import (
	"context"
	"database/sql"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InTx runs fn in a transaction and commits when it returns nil. Errors
// from fn are returned as is; begin and commit failures are wrapped.
func InTx(ctx context.Context, dbh *sql.DB, op string, fn func(tx *sql.Tx) error) error {
	tx, err := dbh.BeginTx(ctx, nil)
	if err != nil {
		return Wrap(op+" begin", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return Wrap(op+" commit", tx.Commit())
}
