package database

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func MigrateUp(cfg *config.Config) error {
	return runMigration(cfg, func(m *migrate.Migrate) error { return m.Up() })
}

func MigrateDown(cfg *config.Config) error {
	return runMigration(cfg, func(m *migrate.Migrate) error { return m.Down() })
}

func runMigration(cfg *config.Config, step func(*migrate.Migrate) error) error {
	m, err := newMigrate(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func newMigrate(cfg *config.Config) (*migrate.Migrate, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		src, err := migrationSource(migrations.Postgres, "postgres")
		if err != nil {
			return nil, err
		}
		return migrate.NewWithSourceInstance("iofs", src, cfg.DBUrl)
	case config.DriverSQLite:
		src, err := migrationSource(migrations.SQLite, "sqlite")
		if err != nil {
			return nil, err
		}
		// migrate closes this handle together with m.
		db, err := openSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite migration driver: %w", err)
		}
		return migrate.NewWithInstance("iofs", src, "sqlite", driver)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func migrationSource(fsys fs.FS, dir string) (source.Driver, error) {
	driver, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("load %s migrations: %w", dir, err)
	}
	return driver, nil
}
