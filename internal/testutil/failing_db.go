package testutil

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"

	"github.com/alexanderramin/tasker/internal/db"
	"github.com/alexanderramin/tasker/internal/domain"
)

// ErrInjected is the default error returned by FailOnNthExec.
var ErrInjected = errors.New("injected failure")

// FailOnNthExec wraps a DBTX and fails its Nth ExecContext call. Calls are
// counted starting at 1; reads pass through and are not counted. Use it to
// simulate a failure part way through a multi-write operation.
type FailOnNthExec struct {
	db.DBTX
	FailOn int32
	Err    error

	count atomic.Int32
}

// NewFailOnNthExec fails the nth write with a transport failure wrapping
// ErrInjected.
func NewFailOnNthExec(inner db.DBTX, n int32) *FailOnNthExec {
	return &FailOnNthExec{DBTX: inner, FailOn: n, Err: errors.Join(domain.ErrTransportFailure, ErrInjected)}
}

func (f *FailOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if n == f.FailOn {
		return nil, f.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// Execs returns the number of ExecContext calls seen, including the failed one.
func (f *FailOnNthExec) Execs() int {
	return int(f.count.Load())
}
