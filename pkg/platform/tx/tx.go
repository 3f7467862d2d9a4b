package tx

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
)

type ctxKey struct{}

var txKey = ctxKey{}

var savepointSeq atomic.Uint64

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sqlx.Tx)
	return tx, ok
}

// Executor returns the transaction bound to ctx, or db when there is none.
// Stores call this for every statement so they join an enclosing transaction.
func Executor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

// Runner opens transactions on a database.
type Runner struct {
	db *sqlx.DB
}

func NewRunner(db *sqlx.DB) *Runner {
	return &Runner{db: db}
}

// RunInTx runs fn inside a transaction that commits when fn returns nil and
// rolls back otherwise. fn's error is returned unchanged. When ctx already
// carries a transaction, fn runs inside a savepoint of it instead.
//
// The rollback is deferred, so a panic or runtime.Goexit inside fn also
// discards the transaction.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if outer, ok := From(ctx); ok {
		return runInSavepoint(ctx, outer, fn)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func runInSavepoint(ctx context.Context, tx *sqlx.Tx, fn func(ctx context.Context) error) (err error) {
	name := fmt.Sprintf("sp_%d", savepointSeq.Add(1))
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("create savepoint: %w", err)
	}
	released := false
	defer func() {
		if !released {
			_, _ = tx.ExecContext(context.WithoutCancel(ctx), "ROLLBACK TO SAVEPOINT "+name)
		}
	}()

	if err := fn(ctx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	released = true
	return nil
}
