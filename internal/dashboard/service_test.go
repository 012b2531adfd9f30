package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/dashboard"
	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/newsletter"
	"github.com/goliatone/go-sitecms/internal/notifications"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

type postCounts map[domain.Status]int

func (p postCounts) CountByStatus(context.Context) (map[domain.Status]int, error) {
	return p, nil
}

type openJobs int

func (o openJobs) ListOpen(_ context.Context, q listing.Query) (listing.Result[*careers.Job], error) {
	return listing.Result[*careers.Job]{Pagination: shared.CalculatePagination(int(o), q.Page, q.Limit)}, nil
}

type failingFeed struct{}

func (failingFeed) Recent(context.Context, int) ([]*activity.Entry, error) {
	return nil, errors.New("feed offline")
}

func TestSummaryAggregatesSources(t *testing.T) {
	ctx := context.Background()

	inbox := messages.NewService(messages.NewMemoryRepository())
	for _, name := range []string{"Amal", "Basel"} {
		if _, err := inbox.Submit(ctx, messages.SubmitRequest{
			Name:    name,
			Email:   "visitor@example.com",
			Subject: "Hello",
			Body:    "Just saying hello to the team.",
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	list := newsletter.NewService(newsletter.NewMemoryRepository())
	if _, err := list.Subscribe(ctx, newsletter.SubscribeRequest{Email: "reader@example.com"}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	notices := notifications.NewService(notifications.NewMemoryRepository())
	if _, err := notices.Create(ctx, notifications.CreateRequest{Title: shared.NewBilingualText("", "Backup done")}); err != nil {
		t.Fatalf("notify: %v", err)
	}

	log := activity.NewService(activity.NewMemoryRepository())
	for range 7 {
		if _, err := log.Record(ctx, activity.Entry{Action: domain.ActionUpdate, Resource: "post"}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := dashboard.NewService(dashboard.Sources{
		Posts:         postCounts{domain.StatusDraft: 2, domain.StatusPublished: 5, domain.StatusArchived: 1},
		Messages:      inbox,
		Jobs:          openJobs(3),
		Newsletter:    list,
		Notifications: notices,
		Activity:      log,
	}, dashboard.WithClock(func() time.Time { return at }))

	summary, err := svc.Summary(ctx, uuid.Nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalPosts != 8 || summary.Posts[domain.StatusPublished] != 5 {
		t.Fatalf("unexpected post counts %+v", summary.Posts)
	}
	if summary.UnreadMessages != 2 || summary.Messages.Total != 2 {
		t.Fatalf("unexpected message counts %+v", summary.Messages)
	}
	if summary.OpenJobs != 3 || summary.Subscribers != 1 || summary.UnreadNotifications != 1 {
		t.Fatalf("unexpected counters %+v", summary)
	}
	if len(summary.RecentActivity) != dashboard.DefaultRecentLimit {
		t.Fatalf("expected %d recent entries, got %d", dashboard.DefaultRecentLimit, len(summary.RecentActivity))
	}
	if !summary.GeneratedAt.Equal(at) {
		t.Fatalf("unexpected timestamp %v", summary.GeneratedAt)
	}
}

func TestSummaryToleratesMissingSources(t *testing.T) {
	svc := dashboard.NewService(dashboard.Sources{Activity: failingFeed{}})
	summary, err := svc.Summary(context.Background(), uuid.Nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalPosts != 0 || summary.RecentActivity == nil || len(summary.RecentActivity) != 0 {
		t.Fatalf("unexpected empty summary %+v", summary)
	}
}
