package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/reviewagenda/internal/txscope"
)

// DBTX is what repositories need from a connection. Both *sql.DB and *sql.Tx
// satisfy it, so the same repository works inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// UnitOfWork runs fn in one transaction. The ctx passed to fn carries a
// fresh txscope.Scope that lives exactly as long as the transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// WithinTx commits when fn returns nil and rolls back on an error or panic.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	return RunTx(ctx, u.db, func(tx *sql.Tx) DBTX { return tx }, fn)
}

// RunTx is the transaction loop behind WithinTx. wrap lets callers decorate
// the *sql.Tx handed to fn.
func RunTx(ctx context.Context, db *sql.DB, wrap func(*sql.Tx) DBTX, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			err = fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
	}()

	if err = fn(txscope.WithScope(ctx, txscope.New()), wrap(tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		committed = true
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
