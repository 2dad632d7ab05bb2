package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/reviewagenda/internal/db"
)

// FailOnNthExecUoW runs real transactions but makes one write fail, so
// rollback paths can be tested at an exact point of a multi-write operation.
//
// FailOn counts ExecContext calls from 1; FailOnQuery fails the first write
// whose SQL contains it. Reads are never failed.
type FailOnNthExecUoW struct {
	DB          *sql.DB
	FailOn      int32
	FailOnQuery string
	Err         error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	wrap := func(tx *sql.Tx) db.DBTX {
		return &failingExec{DBTX: tx, failOn: u.FailOn, query: u.FailOnQuery, err: u.Err}
	}
	return db.RunTx(ctx, u.DB, wrap, fn)
}

type failingExec struct {
	db.DBTX
	count  atomic.Int32
	fired  atomic.Bool
	failOn int32
	query  string
	err    error
}

func (f *failingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	hit := n == f.failOn || (f.query != "" && strings.Contains(query, f.query))
	if hit && f.fired.CompareAndSwap(false, true) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
