package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

var commands = map[string]func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error{
	"up":      goose.UpContext,
	"down":    goose.DownContext,
	"status":  goose.StatusContext,
	"version": goose.VersionContext,
}

// RunMigrations brings the schema for documents, tasks, notes, users and settings up to date.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	return Migrate(ctx, database, "up")
}

// Migrate runs one goose command (up, down, status, version) against the
// embedded migrations. A nil database is a no-op so in-memory setups can call it.
func Migrate(ctx context.Context, database *sql.DB, command string) error {
	if command == "" {
		command = "up"
	}
	run, ok := commands[command]
	if !ok {
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := run(ctx, database, migrationsDir); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
