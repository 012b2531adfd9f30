package activity_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/users"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
)

func repositories(t *testing.T) map[string]activity.Repository {
	t.Helper()
	db := testsupport.NewBunDB(t, func(ctx context.Context, db *bun.DB) error {
		return testsupport.CreateTables(ctx, db, (*activity.Entry)(nil))
	})
	return map[string]activity.Repository{
		"memory": activity.NewMemoryRepository(),
		"bun":    activity.NewBunRepository(db),
	}
}

var base = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, svc activity.Service) {
	t.Helper()
	entries := []activity.Entry{
		{Action: domain.ActionCreate, Resource: "post", ActorName: "Mona", Description: "created post hello", OccurredAt: base.Add(-72 * time.Hour)},
		{Action: domain.ActionDelete, Resource: "post", ActorName: "Mona", Description: "deleted post draft", OccurredAt: base.Add(-48 * time.Hour)},
		{Action: domain.ActionReply, Resource: "message", ActorName: "Tariq", Description: "replied to visitor", OccurredAt: base.Add(-24 * time.Hour)},
		{Action: domain.ActionCreate, Resource: "user", ActorName: "Tariq", Description: "created user", OccurredAt: base},
	}
	for _, entry := range entries {
		if _, err := svc.Record(context.Background(), entry); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
}

func TestListFiltersAndDateRange(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			svc := activity.NewService(repo)
			seed(t, svc)
			ctx := context.Background()

			creates, err := svc.List(ctx, listing.NewQuery().WithFilter("type", "create"))
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if creates.Pagination.Total != 2 || creates.Items[0].Resource != "user" {
				t.Fatalf("expected newest create first, got %+v", creates.Items)
			}

			q := listing.NewQuery().WithFilter("resource", "post")
			from := base.Add(-50 * time.Hour)
			q.From = &from
			posts, _ := svc.List(ctx, q)
			if posts.Pagination.Total != 1 || posts.Items[0].Action != domain.ActionDelete {
				t.Fatalf("unexpected range result %+v", posts.Items)
			}

			q = listing.NewQuery()
			q.Search = "tariq"
			byActor, _ := svc.List(ctx, q)
			if byActor.Pagination.Total != 2 {
				t.Fatalf("expected 2 entries by Tariq, got %d", byActor.Pagination.Total)
			}
		})
	}
}

func TestPurgeRemovesOlderEntries(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			svc := activity.NewService(repo)
			seed(t, svc)
			ctx := context.Background()

			purged, err := svc.Purge(ctx, base.Add(-24*time.Hour))
			if err != nil {
				t.Fatalf("purge: %v", err)
			}
			if purged != 2 {
				t.Fatalf("expected 2 purged, got %d", purged)
			}
			left, _ := svc.List(ctx, listing.NewQuery())
			if left.Pagination.Total != 2 {
				t.Fatalf("expected 2 remaining, got %d", left.Pagination.Total)
			}
		})
	}
}

func TestExportFormats(t *testing.T) {
	svc := activity.NewService(activity.NewMemoryRepository())
	seed(t, svc)
	ctx := context.Background()

	var buf bytes.Buffer
	count, err := svc.Export(ctx, listing.NewQuery().WithFilter("resource", "post"), "CSV", &buf)
	if err != nil || count != 2 {
		t.Fatalf("export csv: count=%d err=%v", count, err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "occurredAt" || rows[1][2] != domain.ActionDelete {
		t.Fatalf("unexpected csv %v", rows)
	}

	buf.Reset()
	if _, err := svc.Export(ctx, listing.NewQuery(), "json", &buf); err != nil {
		t.Fatalf("export json: %v", err)
	}
	var decoded []activity.Entry
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || len(decoded) != 4 {
		t.Fatalf("decode json export: %d entries, %v", len(decoded), err)
	}

	if _, err := svc.Export(ctx, listing.NewQuery(), "xml", &buf); !errors.Is(err, activity.ErrFormatUnsupported) {
		t.Fatalf("expected ErrFormatUnsupported, got %v", err)
	}
}

func TestServicesRecordThroughSink(t *testing.T) {
	log := activity.NewService(activity.NewMemoryRepository())
	accounts := users.NewService(users.NewMemoryRepository(), users.WithActivityEmitter(activity.NewEmitter(log)))

	actor := uuid.New()
	ctx := activity.ContextWithRequest(context.Background(), activity.RequestInfo{
		ActorID:   actor,
		ActorName: "Admin",
		IP:        "10.0.0.7",
	})
	created, err := accounts.Create(ctx, users.CreateRequest{Name: "Rana", Email: "rana@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	result, err := log.List(context.Background(), listing.NewQuery())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected one entry, got %d", len(result.Items))
	}
	entry := result.Items[0]
	if entry.Action != domain.ActionCreate || entry.Resource != "user" || entry.ResourceID != created.ID.String() {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.ActorID != actor || entry.ActorName != "Admin" || entry.IP != "10.0.0.7" {
		t.Fatalf("request info not applied: %+v", entry)
	}
	if entry.Description != "created user rana@example.com" || entry.Channel != activity.Channel {
		t.Fatalf("unexpected description/channel %+v", entry)
	}
}

func TestRecordRequiresAction(t *testing.T) {
	svc := activity.NewService(activity.NewMemoryRepository())
	if _, err := svc.Record(context.Background(), activity.Entry{}); !errors.Is(err, activity.ErrActionRequired) {
		t.Fatalf("expected ErrActionRequired, got %v", err)
	}
}
