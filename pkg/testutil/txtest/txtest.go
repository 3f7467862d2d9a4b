// Package txtest isolates store tests inside transactions that never commit.
//
// Usage:
//
//	err := txtest.WithRollback(ctx, db, func(ctx context.Context) error {
//	    // stores called with ctx join the transaction
//	    return store.Create(ctx, exhibitor)
//	})
//
// Nothing written inside the action is visible once WithRollback returns,
// whether the action succeeded, returned an error, or failed a test assertion.
// A single call is not safe for concurrent use of its ctx from several goroutines.
package txtest

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"fairgate/pkg/platform/tx"
)

// errRollback is returned from the transaction body to force the runner to
// discard the transaction. It never leaves this package.
var errRollback = errors.New("txtest: rollback")

// WithRollback runs action inside a transaction and always rolls it back.
// Errors from action other than the internal rollback signal are returned
// unchanged.
func WithRollback(ctx context.Context, db *sqlx.DB, action func(ctx context.Context) error) error {
	err := tx.NewRunner(db).RunInTx(ctx, func(ctx context.Context) error {
		if err := action(ctx); err != nil {
			return err
		}
		return errRollback
	})
	if errors.Is(err, errRollback) {
		return nil
	}
	return err
}
