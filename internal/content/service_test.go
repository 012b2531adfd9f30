package content_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/store"
	"github.com/goliatone/go-sitecms/internal/validation"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
)

func services(t *testing.T) map[string]content.Service {
	t.Helper()
	newDB := func() *bun.DB {
		return testsupport.NewBunDB(t, func(ctx context.Context, db *bun.DB) error {
			return testsupport.CreateTables(ctx, db, (*content.Entry)(nil))
		})
	}
	cacheService, err := repocache.NewCacheService(repocache.DefaultConfig())
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	out := map[string]content.Service{}
	for name, repo := range map[string]content.Repository{
		"memory": content.NewMemoryRepository(),
		"bun":    content.NewBunRepository(newDB()),
		"cached": content.NewBunRepositoryWithCache(newDB(), cacheService, repocache.NewDefaultKeySerializer()),
	} {
		svc, err := content.NewService(repo)
		if err != nil {
			t.Fatalf("new service: %v", err)
		}
		out[name] = svc
	}
	return out
}

func mainMenu() map[string]any {
	return map[string]any{
		"items": []any{
			map[string]any{"label": map[string]any{"ar": "الرئيسية", "en": "Home"}, "url": "/"},
			map[string]any{"label": map[string]any{"ar": "المدونة", "en": "Blog"}, "url": "/blog"},
		},
	}
}

func TestBulkUpsertAndRead(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			written, err := svc.BulkUpsert(ctx, []content.EntryInput{
				{Key: "Home.Hero", Data: map[string]any{"title": map[string]any{"en": "Welcome"}}},
				{Key: "home.features", Data: map[string]any{"items": []any{}}},
				{Key: "menu.main", Data: mainMenu()},
				{Key: "settings.site", Data: map[string]any{"contactEmail": "hello@example.com"}},
			}, uuid.Nil)
			if err != nil || written != 4 {
				t.Fatalf("bulk upsert: written=%d err=%v", written, err)
			}

			hero, err := svc.Get(ctx, "home.hero")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if hero.ID != identity.ContentUUID("home.hero") || hero.Key != "home.hero" {
				t.Fatalf("unexpected entry %+v", hero)
			}

			home, err := svc.List(ctx, "home.")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(home) != 2 || home[0].Key != "home.features" {
				t.Fatalf("unexpected prefix list %+v", home)
			}

			if _, err := svc.BulkUpsert(ctx, []content.EntryInput{
				{Key: "home.hero", Data: map[string]any{"title": map[string]any{"en": "Hello again"}}},
			}, uuid.Nil); err != nil {
				t.Fatalf("second upsert: %v", err)
			}
			all, _ := svc.List(ctx, "")
			if len(all) != 4 {
				t.Fatalf("upsert should not add rows, got %d", len(all))
			}
			hero, _ = svc.Get(ctx, "home.hero")
			title, _ := hero.Data["title"].(map[string]any)
			if title["en"] != "Hello again" {
				t.Fatalf("expected updated data, got %v", hero.Data)
			}

			if err := svc.Delete(ctx, "home.hero", uuid.Nil); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := svc.Get(ctx, "home.hero"); !store.IsNotFound(err) {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}
}

func TestBulkUpsertRejectsSchemaViolations(t *testing.T) {
	svc, err := content.NewService(content.NewMemoryRepository())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	_, err = svc.BulkUpsert(ctx, []content.EntryInput{
		{Key: "about.intro", Data: map[string]any{"body": "ok"}},
		{Key: "menu.footer", Data: map[string]any{"items": []any{map[string]any{"url": "/x"}}}},
		{Key: "bad key!", Data: map[string]any{}},
	}, uuid.Nil)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	fields := validation.FieldErrors(err)
	if !strings.Contains(fields["1.data"], "label") {
		t.Fatalf("expected schema error for menu entry, got %v", fields)
	}
	if fields["2.key"] == "" {
		t.Fatalf("expected key error, got %v", fields)
	}
	if _, ok := fields["0.key"]; ok {
		t.Fatalf("valid entry should not report errors: %v", fields)
	}
	if entries, _ := svc.List(ctx, ""); len(entries) != 0 {
		t.Fatalf("nothing should be written, got %d", len(entries))
	}

	if _, err := svc.BulkUpsert(ctx, nil, uuid.Nil); !errors.Is(err, content.ErrEntriesRequired) {
		t.Fatalf("expected ErrEntriesRequired, got %v", err)
	}
}

func TestCustomSchemaRegistry(t *testing.T) {
	registry := validation.NewRegistry()
	if err := registry.Register("pricing.", map[string]any{
		"type":     "object",
		"required": []any{"plans"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	svc, err := content.NewService(content.NewMemoryRepository(), content.WithSchemas(registry))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.BulkUpsert(context.Background(), []content.EntryInput{{Key: "pricing.table", Data: map[string]any{}}}, uuid.Nil); err == nil {
		t.Fatalf("expected pricing schema error")
	}
	if _, err := svc.BulkUpsert(context.Background(), []content.EntryInput{{Key: "menu.main", Data: map[string]any{}}}, uuid.Nil); err != nil {
		t.Fatalf("replaced registry should not know menu schema: %v", err)
	}
}
