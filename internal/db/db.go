package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqlitePoolSize = 4

func Init(driver, connection string) (*sqlx.DB, error) {
	// SQLite: create data directory if needed
	if driver == "sqlite" && !isMemory(connection) {
		dir := filepath.Dir(strings.TrimPrefix(connection, "file:"))
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	db.SetMaxOpenConns(poolSize(driver, connection))
	if driver != "sqlite" {
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	slog.Info("database connected", "driver", driver)

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// poolSize bounds open connections. An in-memory SQLite database lives in a
// single connection. A file database gets a small pool so WAL readers are not
// queued behind a write transaction that is waiting on the mail provider;
// writers still serialize through busy_timeout.
func poolSize(driver, connection string) int {
	switch {
	case driver == "sqlite" && isMemory(connection):
		return 1
	case driver == "sqlite":
		return sqlitePoolSize
	default:
		return 25
	}
}

func isMemory(connection string) bool {
	return strings.Contains(connection, ":memory:") || strings.Contains(connection, "mode=memory")
}
