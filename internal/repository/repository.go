package repository

import "strings"

// isUniqueViolation detects unique constraint errors for both SQLite and PostgreSQL.
func isUniqueViolation(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}
