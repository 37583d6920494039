package database

import (
	"context"
	"fmt"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository/postgres"
	"github.com/ZicoForREAL/fullstackAPP/internal/repository/sqlite"
)

// OpenStore connects to the backend selected by DB_DRIVER.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := ConnectPostgres(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(pool), nil
	case config.DriverSQLite:
		db, err := ConnectSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
