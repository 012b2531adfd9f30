// Package dashboard aggregates the admin overview from the resource services.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/careers"
	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// DefaultRecentLimit is how many activity entries the summary carries.
const DefaultRecentLimit = 5

// Summary is the admin dashboard payload.
type Summary struct {
	Posts               map[domain.Status]int `json:"posts"`
	TotalPosts          int                   `json:"totalPosts"`
	Messages            messages.Stats        `json:"messages"`
	UnreadMessages      int                   `json:"unreadMessages"`
	OpenJobs            int                   `json:"openJobs"`
	Subscribers         int                   `json:"subscribers"`
	UnreadNotifications int                   `json:"unreadNotifications"`
	RecentActivity      []*activity.Entry     `json:"recentActivity"`
	GeneratedAt         time.Time             `json:"generatedAt"`
}

type PostCounter interface {
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
}

type MessageStats interface {
	Stats(ctx context.Context) (messages.Stats, error)
}

type OpenJobs interface {
	ListOpen(ctx context.Context, q listing.Query) (listing.Result[*careers.Job], error)
}

type SubscriberCounter interface {
	Count(ctx context.Context) (int, error)
}

type UnreadCounter interface {
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type RecentActivity interface {
	Recent(ctx context.Context, limit int) ([]*activity.Entry, error)
}

// Sources are the services the summary reads; nil sources are skipped.
type Sources struct {
	Posts         PostCounter
	Messages      MessageStats
	Jobs          OpenJobs
	Newsletter    SubscriberCounter
	Notifications UnreadCounter
	Activity      RecentActivity
}

type Service struct {
	sources Sources
	recent  int
	now     func() time.Time
	logger  interfaces.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithRecentLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.recent = limit
		}
	}
}

func NewService(sources Sources, opts ...Option) *Service {
	s := &Service{
		sources: sources,
		recent:  DefaultRecentLimit,
		now:     time.Now,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary builds the overview for user; uuid.Nil counts every notification.
func (s *Service) Summary(ctx context.Context, user uuid.UUID) (Summary, error) {
	summary := Summary{
		Posts:          map[domain.Status]int{},
		RecentActivity: []*activity.Entry{},
		GeneratedAt:    s.now().UTC(),
	}

	if s.sources.Posts != nil {
		counts, err := s.sources.Posts.CountByStatus(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("dashboard: posts: %w", err)
		}
		summary.Posts = counts
		for _, count := range counts {
			summary.TotalPosts += count
		}
	}
	if s.sources.Messages != nil {
		stats, err := s.sources.Messages.Stats(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("dashboard: messages: %w", err)
		}
		summary.Messages = stats
		summary.UnreadMessages = stats.ByStatus[domain.StatusUnread]
	}
	if s.sources.Jobs != nil {
		q := listing.NewQuery()
		q.Limit = 1
		open, err := s.sources.Jobs.ListOpen(ctx, q)
		if err != nil {
			return Summary{}, fmt.Errorf("dashboard: jobs: %w", err)
		}
		summary.OpenJobs = open.Pagination.Total
	}
	if s.sources.Newsletter != nil {
		count, err := s.sources.Newsletter.Count(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("dashboard: newsletter: %w", err)
		}
		summary.Subscribers = count
	}
	if s.sources.Notifications != nil {
		count, err := s.sources.Notifications.UnreadCount(ctx, user)
		if err != nil {
			return Summary{}, fmt.Errorf("dashboard: notifications: %w", err)
		}
		summary.UnreadNotifications = count
	}
	if s.sources.Activity != nil {
		entries, err := s.sources.Activity.Recent(ctx, s.recent)
		if err != nil {
			// the overview stays useful without the feed
			s.logger.Warn("dashboard.recent_activity_failed", "error", err)
		} else if entries != nil {
			summary.RecentActivity = entries
		}
	}
	return summary, nil
}
