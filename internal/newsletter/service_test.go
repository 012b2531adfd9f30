package newsletter_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/store"
	"github.com/goliatone/go-sitecms/internal/validation"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
)

func repositories(t *testing.T) map[string]newsletter.Repository {
	t.Helper()
	db := testsupport.NewBunDB(t, func(ctx context.Context, db *bun.DB) error {
		return testsupport.CreateTables(ctx, db, (*newsletter.Subscriber)(nil))
	})
	return map[string]newsletter.Repository{
		"memory": newsletter.NewMemoryRepository(),
		"bun":    newsletter.NewBunRepository(db),
	}
}

func clock() func() time.Time {
	at := time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Minute)
		return at
	}
}

func TestSubscribeIsIdempotent(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			svc := newsletter.NewService(repo, newsletter.WithClock(clock()))
			ctx := context.Background()

			first, err := svc.Subscribe(ctx, newsletter.SubscribeRequest{Email: " Reader@Example.com", Locale: "AR", Source: "footer"})
			if err != nil {
				t.Fatalf("subscribe: %v", err)
			}
			if first.Email != "reader@example.com" || first.Locale != "ar" || first.Status != domain.StatusSubscribed {
				t.Fatalf("unexpected subscriber %+v", first)
			}

			again, err := svc.Subscribe(ctx, newsletter.SubscribeRequest{Email: "reader@example.com"})
			if err != nil {
				t.Fatalf("subscribe again: %v", err)
			}
			if again.ID != first.ID || !again.SubscribedAt.Equal(first.SubscribedAt) {
				t.Fatalf("expected same subscription, got %+v", again)
			}

			gone, err := svc.Unsubscribe(ctx, "READER@example.com")
			if err != nil || gone.Status != domain.StatusUnsubscribed || gone.UnsubscribedAt == nil {
				t.Fatalf("unsubscribe: %+v %v", gone, err)
			}
			if count, _ := svc.Count(ctx); count != 0 {
				t.Fatalf("expected no active subscribers, got %d", count)
			}

			back, err := svc.Subscribe(ctx, newsletter.SubscribeRequest{Email: "reader@example.com", Locale: "en"})
			if err != nil {
				t.Fatalf("resubscribe: %v", err)
			}
			if back.ID != first.ID || back.Status != domain.StatusSubscribed || back.UnsubscribedAt != nil || back.Locale != "en" {
				t.Fatalf("unexpected resubscription %+v", back)
			}

			all, _ := svc.List(ctx, listing.NewQuery())
			if all.Pagination.Total != 1 {
				t.Fatalf("expected a single row, got %d", all.Pagination.Total)
			}
		})
	}
}

func TestSubscribeValidatesEmail(t *testing.T) {
	svc := newsletter.NewService(newsletter.NewMemoryRepository())
	_, err := svc.Subscribe(context.Background(), newsletter.SubscribeRequest{Email: "not-an-email"})
	if validation.FieldErrors(err)["email"] == "" {
		t.Fatalf("expected email error, got %v", err)
	}
	if _, err := svc.Unsubscribe(context.Background(), "nobody@example.com"); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBulkOperationsAndExport(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			svc := newsletter.NewService(repo, newsletter.WithClock(clock()))
			ctx := context.Background()
			var ids []uuid.UUID
			for i := range 4 {
				sub, err := svc.Subscribe(ctx, newsletter.SubscribeRequest{Email: fmt.Sprintf("user%d@example.com", i)})
				if err != nil {
					t.Fatalf("subscribe: %v", err)
				}
				ids = append(ids, sub.ID)
			}

			modified, err := svc.BulkStatus(ctx, ids[:3], "unsubscribed")
			if err != nil || modified != 3 {
				t.Fatalf("bulk status: modified=%d err=%v", modified, err)
			}
			if count, _ := svc.Count(ctx); count != 1 {
				t.Fatalf("expected one active subscriber, got %d", count)
			}

			var buf bytes.Buffer
			exported, err := svc.ExportCSV(ctx, listing.NewQuery().WithFilter("status", "unsubscribed"), &buf)
			if err != nil || exported != 3 {
				t.Fatalf("export: exported=%d err=%v", exported, err)
			}
			rows, err := csv.NewReader(&buf).ReadAll()
			if err != nil || len(rows) != 4 || rows[0][0] != "email" {
				t.Fatalf("unexpected csv %v (%v)", rows, err)
			}

			deleted, err := svc.DeleteMany(ctx, ids[:2])
			if err != nil || deleted != 2 {
				t.Fatalf("delete many: deleted=%d err=%v", deleted, err)
			}
		})
	}
}
