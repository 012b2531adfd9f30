// Package testsupport provides database helpers shared by sitecms tests.
package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var memoryDBCounter atomic.Int64

// NewSQLiteMemoryDB opens a private in-memory SQLite database. Each call gets
// its own named database so parallel tests do not share tables.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	name := fmt.Sprintf("file:sitecms_%d?mode=memory&cache=shared", memoryDBCounter.Add(1))
	db, err := sql.Open("sqlite3", name)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewBunDB returns a bun handle over a fresh in-memory database, closing it
// when the test ends. migrate, when non-nil, runs before the handle is
// returned.
func NewBunDB(t testing.TB, migrate func(context.Context, *bun.DB) error) *bun.DB {
	t.Helper()
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	if migrate != nil {
		if err := migrate(context.Background(), db); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db
}

// CreateTables creates a table for each model when it does not exist yet.
func CreateTables(ctx context.Context, db *bun.DB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return nil
}
