package sitecms

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/migrations"
)

// Migrate creates every sitecms table and index that does not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	return migrations.Migrate(ctx, db)
}
