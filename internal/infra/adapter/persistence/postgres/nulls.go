// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import "database/sql"

// nullIfEmpty stores optional text columns as NULL instead of ''.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
