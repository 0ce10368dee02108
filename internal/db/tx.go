package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// WithTx begins a transaction, runs fn with it, then commits when fn returns
// nil and rolls back otherwise. A panic in fn rolls back and is re-raised.
//
//	err := db.WithTx(ctx, database, func(tx *sqlx.Tx) error {
//	    return users.WithTx(tx).Create(ctx, user)
//	})
func WithTx(ctx context.Context, database *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := database.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return err
}
