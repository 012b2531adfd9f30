package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-sitecms/internal/runtimeconfig"
)

// OpenDatabase opens the SQL database described by cfg. The memory driver has
// no database and returns nil.
func OpenDatabase(ctx context.Context, cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	var (
		sqlDriver string
		dialect   func(*sql.DB) *bun.DB
	)
	switch driver {
	case "", runtimeconfig.DriverMemory:
		return nil, nil
	case runtimeconfig.DriverSQLite:
		sqlDriver = "sqlite3"
		dialect = func(db *sql.DB) *bun.DB {
			// sqlite serialises writers; one connection avoids SQLITE_BUSY.
			db.SetMaxOpenConns(1)
			return bun.NewDB(db, sqlitedialect.New())
		}
	case runtimeconfig.DriverPostgres:
		sqlDriver = "postgres"
		dialect = func(db *sql.DB) *bun.DB {
			return bun.NewDB(db, pgdialect.New())
		}
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageDriverUnknown, cfg.Driver)
	}

	sqlDB, err := sql.Open(sqlDriver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("di: open %s: %w", driver, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("di: ping %s: %w", driver, err)
	}
	return dialect(sqlDB), nil
}
