package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// RunMigrations applies every pending up migration from migrationsFS.
// It reports whether anything was applied.
func RunMigrations(databaseURL string, migrationsFS fs.FS) (applied bool, err error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return false, fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return false, fmt.Errorf("ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return false, fmt.Errorf("create migrate driver: %w", err)
	}
	source, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return false, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return false, fmt.Errorf("create migrate instance: %w", err)
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return false, fmt.Errorf("apply migrations: %w", upErr)
	}
	if sourceErr != nil {
		return false, fmt.Errorf("migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return false, fmt.Errorf("migration database: %w", dbErr)
	}
	return upErr == nil, nil
}
