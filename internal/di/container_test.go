package di_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/di"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/migrations"
	"github.com/goliatone/go-sitecms/internal/posts"
	"github.com/goliatone/go-sitecms/internal/runtimeconfig"
	"github.com/goliatone/go-sitecms/pkg/shared"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
)

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.DefaultLocale = "fr"

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrDefaultLocaleInvalid) {
		t.Fatalf("expected ErrDefaultLocaleInvalid, got %v", err)
	}
}

func TestNewContainerDefaultsToMemory(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.DB() != nil {
		t.Fatalf("expected no database for the memory driver")
	}

	ctx := context.Background()
	if _, err := container.MessageService().Submit(ctx, messages.SubmitRequest{
		Name:    "Sara Ali",
		Email:   "sara@example.com",
		Subject: "Hello",
		Body:    "We need a new landing page.",
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	unread, err := container.NotificationService().UnreadCount(ctx, uuid.New())
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if unread != 1 {
		t.Fatalf("expected the inbox to raise one notification, got %d", unread)
	}

	want := []string{"jobs", "messages", "newsletter", "notifications", "portfolio", "posts", "users"}
	if got := container.Bulk().Resources(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected bulk resources %v, got %v", want, got)
	}
}

func TestContainerRecordsActivityThroughEmitter(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	container, err := di.NewContainer(runtimeconfig.DefaultConfig(),
		di.WithLoggerProvider(newRecordingProvider()),
		di.WithClock(func() time.Time { return fixed }),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	ctx := context.Background()
	post, err := container.PostService().Create(ctx, posts.CreatePostRequest{
		Title:   shared.NewBilingualText("مرحبا", "Hello world"),
		Content: shared.NewBilingualText("نص", "Some body text"),
		Author:  posts.Author{Name: "Editor"},
		ActorID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if !post.CreatedAt.Equal(fixed) {
		t.Fatalf("expected container clock to reach the post service, got %v", post.CreatedAt)
	}

	recent, err := container.ActivityService().Recent(ctx, 5)
	if err != nil {
		t.Fatalf("recent activity: %v", err)
	}
	if len(recent) == 0 {
		t.Fatalf("expected post creation to be recorded in the activity log")
	}
}

func TestContainerUsesSuppliedDatabase(t *testing.T) {
	db := testsupport.NewBunDB(t, migrations.Migrate)
	container, err := di.NewContainer(runtimeconfig.DefaultConfig(),
		di.WithBunDB(db),
		di.WithLoggerProvider(newRecordingProvider()),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.DB() != db {
		t.Fatalf("expected container to keep the supplied database")
	}

	ctx := context.Background()
	if _, err := container.PostService().Create(ctx, posts.CreatePostRequest{
		Title:   shared.NewBilingualText("", "Stored post"),
		Content: shared.NewBilingualText("", "Persisted through bun"),
		Author:  posts.Author{Name: "Editor"},
	}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	count, err := db.NewSelect().Model((*posts.Post)(nil)).Count(ctx)
	if err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored post, got %d", count)
	}

	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("supplied database should stay open after Close: %v", err)
	}
}

func TestContainerOpensSQLiteFromConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = runtimeconfig.DriverSQLite
	cfg.Storage.DSN = fmt.Sprintf("file:di_open_%d?mode=memory&cache=shared", time.Now().UnixNano())

	container, err := di.NewContainer(cfg, di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	if container.DB() == nil {
		t.Fatalf("expected the container to open a database")
	}
	count, err := container.DB().NewSelect().Model((*messages.Message)(nil)).Count(context.Background())
	if err != nil {
		t.Fatalf("expected migrated messages table: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d", count)
	}
}

func TestContainerHandlerServesBothRouteSets(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Server.AdminPrefix = "/cms/api"
	container, err := di.NewContainer(cfg, di.WithLoggerProvider(newRecordingProvider()))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	for _, tc := range []struct {
		path string
		want int
	}{
		{"/cms/api/dashboard", http.StatusOK},
		{"/admin/api/dashboard", http.StatusNotFound},
		{"/api/posts", http.StatusOK},
		{"/sitemap.xml", http.StatusOK},
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("GET %s: expected %d, got %d: %s", tc.path, tc.want, rec.Code, rec.Body.String())
		}
	}
}
