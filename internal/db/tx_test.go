package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := Init("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	_, err = database.Exec(`CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)`)
	require.NoError(t, err)
	return database
}

func countRows(t *testing.T, database *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.Get(&n, `SELECT COUNT(*) FROM t`))
	return n
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	database := setupDB(t)

	err := WithTx(context.Background(), database, func(tx *sqlx.Tx) error {
		_, err := tx.Exec(`INSERT INTO t(v) VALUES ('ok')`)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, database))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	database := setupDB(t)

	err := WithTx(context.Background(), database, func(tx *sqlx.Tx) error {
		_, e := tx.Exec(`INSERT INTO t(v) VALUES ('fail')`)
		require.NoError(t, e)
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.Equal(t, 0, countRows(t, database))
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	database := setupDB(t)

	defer func() {
		require.NotNil(t, recover(), "expected panic to propagate")
		require.Equal(t, 0, countRows(t, database))
	}()

	_ = WithTx(context.Background(), database, func(tx *sqlx.Tx) error {
		_, e := tx.Exec(`INSERT INTO t(v) VALUES ('panic')`)
		require.NoError(t, e)
		panic("kaput")
	})
}

func TestWithTx_BeginError(t *testing.T) {
	database := setupDB(t)
	require.NoError(t, database.Close())

	err := WithTx(context.Background(), database, func(tx *sqlx.Tx) error {
		return nil
	})
	require.Error(t, err)
}
