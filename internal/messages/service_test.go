package messages_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/validation"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
)

type recordingNotifier struct {
	received []*messages.Message
}

func (n *recordingNotifier) MessageReceived(_ context.Context, msg *messages.Message) error {
	n.received = append(n.received, msg)
	return nil
}

func submission(i int) messages.SubmitRequest {
	return messages.SubmitRequest{
		Name:    fmt.Sprintf("Visitor %d", i),
		Email:   fmt.Sprintf("Visitor%d@Example.com", i),
		Subject: fmt.Sprintf("Question %d", i),
		Body:    "I would like to know more about your services.",
	}
}

func repositories(t *testing.T) map[string]messages.Repository {
	t.Helper()
	db := testsupport.NewBunDB(t, func(ctx context.Context, db *bun.DB) error {
		return testsupport.CreateTables(ctx, db, (*messages.Message)(nil))
	})
	return map[string]messages.Repository{
		"memory": messages.NewMemoryRepository(),
		"bun":    messages.NewBunRepository(db),
	}
}

func TestSubmitValidatesAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := messages.NewService(messages.NewMemoryRepository(), messages.WithNotifier(notifier))
	ctx := context.Background()

	_, err := svc.Submit(ctx, messages.SubmitRequest{Name: "A", Email: "not-an-email"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fields := validation.FieldErrors(err)
	for _, key := range []string{"name", "email", "subject", "message"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected %s error, got %v", key, fields)
		}
	}

	msg, err := svc.Submit(ctx, submission(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg.Status != domain.StatusUnread || msg.Email != "visitor1@example.com" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if len(notifier.received) != 1 {
		t.Fatalf("expected notifier call, got %d", len(notifier.received))
	}
}

func TestGetMarksRead(t *testing.T) {
	svc := messages.NewService(messages.NewMemoryRepository())
	ctx := context.Background()

	msg, err := svc.Submit(ctx, submission(1))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	got, err := svc.Get(ctx, msg.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusRead {
		t.Fatalf("expected read, got %s", got.Status)
	}
}

func TestReply(t *testing.T) {
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	svc := messages.NewService(messages.NewMemoryRepository(), messages.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	msg, _ := svc.Submit(ctx, submission(1))
	if _, err := svc.Reply(ctx, messages.ReplyRequest{ID: msg.ID, Reply: "  "}); !errors.Is(err, messages.ErrReplyRequired) {
		t.Fatalf("expected ErrReplyRequired, got %v", err)
	}
	replied, err := svc.Reply(ctx, messages.ReplyRequest{ID: msg.ID, Reply: "Thanks, we will call you."})
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if replied.Status != domain.StatusReplied || replied.RepliedAt == nil || !replied.RepliedAt.Equal(now) {
		t.Fatalf("unexpected reply state %+v", replied)
	}
}

func TestBulkArchiveAndStats(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			svc := messages.NewService(repo)

			var ids []uuid.UUID
			for i := range 5 {
				msg, err := svc.Submit(ctx, submission(i))
				if err != nil {
					t.Fatalf("submit: %v", err)
				}
				ids = append(ids, msg.ID)
			}

			modified, err := svc.BulkStatus(ctx, ids[:2], "archived")
			if err != nil {
				t.Fatalf("bulk status: %v", err)
			}
			if modified != 2 {
				t.Fatalf("expected 2 modified, got %d", modified)
			}
			if _, err := svc.BulkStatus(ctx, ids, "published"); !errors.Is(err, messages.ErrStatusInvalid) {
				t.Fatalf("expected ErrStatusInvalid, got %v", err)
			}

			stats, err := svc.Stats(ctx)
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if stats.Total != 5 || stats.ByStatus[domain.StatusArchived] != 2 || stats.ByStatus[domain.StatusUnread] != 3 {
				t.Fatalf("unexpected stats %+v", stats)
			}

			q := listing.NewQuery().WithFilter("status", "unread")
			q.Search = "visitor4@"
			result, err := svc.List(ctx, q)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if result.Pagination.Total != 1 {
				t.Fatalf("expected 1 match, got %d", result.Pagination.Total)
			}

			deleted, err := svc.DeleteMany(ctx, ids[:3])
			if err != nil || deleted != 3 {
				t.Fatalf("delete many: %d %v", deleted, err)
			}
		})
	}
}
