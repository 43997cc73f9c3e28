package sqlutil

import (
	"context"
	"database/sql"
)

// Run executes fn inside a *sql.Tx bound to a fresh query object.
// The transaction rolls back when fn returns an error and commits
// otherwise. The question activation swap relies on this to keep the
// deactivate-then-activate sequence all-or-nothing.
func Run[T any](
	ctx context.Context,
	db *sql.DB,
	newQueries func(*sql.Tx) *T,
	fn func(q *T) error,
) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	q := newQueries(tx)
	if err := fn(q); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
