package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// MigrationsFS contains the embedded SQL migration files.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the directory inside MigrationsFS that holds the migrations.
const MigrationsDir = "migrations"

// SetupGoose points goose at the embedded migrations and the postgres dialect.
// table overrides the version table when non-empty.
func SetupGoose(table string) error {
	goose.SetBaseFS(MigrationsFS)
	if table != "" {
		goose.SetTableName(table)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return nil
}

// MigrateUp applies all pending migrations.
func MigrateUp(db *sql.DB) error {
	if err := SetupGoose(""); err != nil {
		return err
	}
	if err := goose.Up(db, MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
