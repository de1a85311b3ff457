package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/Spok95/kindergarten/internal/db/migrations"
)

func init() {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
}

// Migrate накатывает все миграции из embed FS.
func Migrate(ctx context.Context, database *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MigrateDown откатывает последнюю миграцию.
func MigrateDown(ctx context.Context, database *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.DownContext(ctx, database, ".")
}

// MigrationVersion — текущая версия схемы.
func MigrationVersion(ctx context.Context, database *sql.DB) (int64, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, database)
}
