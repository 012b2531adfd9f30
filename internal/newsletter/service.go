// Package newsletter manages the mailing list.
package newsletter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/store"
	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

var ErrStatusInvalid = errors.New("newsletter: status invalid")

// Service exposes mailing list operations.
type Service interface {
	// Subscribe is idempotent: an existing subscriber is returned as is, an
	// unsubscribed one is resubscribed.
	Subscribe(ctx context.Context, req SubscribeRequest) (*Subscriber, error)
	Unsubscribe(ctx context.Context, email string) (*Subscriber, error)
	List(ctx context.Context, q listing.Query) (listing.Result[*Subscriber], error)
	Count(ctx context.Context) (int, error)
	BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
	Statuses() []string
	// ExportCSV writes every subscriber matching q.
	ExportCSV(ctx context.Context, q listing.Query, w io.Writer) (int, error)
}

type ServiceOption func(*service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

type service struct {
	repo     Repository
	now      func() time.Time
	logger   interfaces.Logger
	activity *activity.Emitter
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		now:      time.Now,
		logger:   logging.NoOp(),
		activity: activity.NewEmitter(nil, activity.Config{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Subscribe(ctx context.Context, req SubscribeRequest) (*Subscriber, error) {
	req.Email = normalizeEmail(req.Email)
	req.Source = strings.TrimSpace(req.Source)
	err := ozzo.ValidateStruct(&req,
		ozzo.Field(&req.Email, ozzo.Required, is.EmailFormat, ozzo.Length(3, 254)),
		ozzo.Field(&req.Source, ozzo.Length(0, 64)),
	)
	if err != nil {
		return nil, err
	}
	locale := string(shared.ParseLocale(req.Locale))
	now := s.now().UTC()

	existing, err := s.repo.FindOne(ctx, "email", req.Email)
	switch {
	case err == nil:
		if existing.Status == domain.StatusSubscribed {
			return existing, nil
		}
		existing.Status = domain.StatusSubscribed
		existing.Locale = locale
		existing.SubscribedAt = now
		existing.UnsubscribedAt = nil
		existing.UpdatedAt = now
		updated, err := s.repo.Update(ctx, existing)
		if err != nil {
			return nil, err
		}
		s.logger.Info("newsletter.resubscribed", "subscriber_id", updated.ID)
		s.emitActivity(ctx, domain.ActionSubscribe, updated)
		return updated, nil
	case !store.IsNotFound(err):
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Subscriber{
		Email:        req.Email,
		Locale:       locale,
		Status:       domain.StatusSubscribed,
		Source:       req.Source,
		SubscribedAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("newsletter.subscribed", "subscriber_id", created.ID)
	s.emitActivity(ctx, domain.ActionSubscribe, created)
	return created, nil
}

func (s *service) Unsubscribe(ctx context.Context, email string) (*Subscriber, error) {
	subscriber, err := s.repo.FindOne(ctx, "email", normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if subscriber.Status == domain.StatusUnsubscribed {
		return subscriber, nil
	}
	now := s.now().UTC()
	subscriber.Status = domain.StatusUnsubscribed
	subscriber.UnsubscribedAt = &now
	subscriber.UpdatedAt = now
	updated, err := s.repo.Update(ctx, subscriber)
	if err != nil {
		return nil, err
	}
	s.logger.Info("newsletter.unsubscribed", "subscriber_id", updated.ID)
	s.emitActivity(ctx, domain.ActionStatus, updated)
	return updated, nil
}

func (s *service) List(ctx context.Context, q listing.Query) (listing.Result[*Subscriber], error) {
	return s.repo.List(ctx, q)
}

// Count returns the number of active subscribers.
func (s *service) Count(ctx context.Context) (int, error) {
	return store.Count(ctx, s.repo, listing.NewQuery().WithFilter("status", string(domain.StatusSubscribed)))
}

func (s *service) BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error) {
	parsed, ok := domain.SubscriberStatuses.Parse(status)
	if !ok || strings.TrimSpace(status) == "" {
		return 0, ErrStatusInvalid
	}
	modified, err := s.repo.UpdateStatus(ctx, ids, string(parsed))
	if err != nil {
		return 0, err
	}
	s.logger.Info("newsletter.bulk_status", "ids", len(ids), "status", parsed, "modified", modified)
	return modified, nil
}

func (s *service) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("newsletter.bulk_delete", "ids", len(ids), "deleted", deleted)
	return deleted, nil
}

func (s *service) Statuses() []string {
	return domain.SubscriberStatuses.Strings()
}

func (s *service) ExportCSV(ctx context.Context, q listing.Query, w io.Writer) (int, error) {
	subscribers, err := s.repo.Find(ctx, q)
	if err != nil {
		return 0, err
	}
	out := csv.NewWriter(w)
	if err := out.Write([]string{"email", "locale", "status", "source", "subscribedAt"}); err != nil {
		return 0, fmt.Errorf("newsletter: export: %w", err)
	}
	for _, sub := range subscribers {
		if err := out.Write([]string{
			sub.Email,
			sub.Locale,
			string(sub.Status),
			sub.Source,
			sub.SubscribedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return 0, fmt.Errorf("newsletter: export: %w", err)
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		return 0, fmt.Errorf("newsletter: export: %w", err)
	}
	return len(subscribers), nil
}

func (s *service) emitActivity(ctx context.Context, verb string, sub *Subscriber) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	_ = s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    uuid.Nil.String(),
		ObjectType: "subscriber",
		ObjectID:   sub.ID.String(),
		Metadata: map[string]any{
			"status":      string(sub.Status),
			"description": string(sub.Status) + " " + sub.Email,
		},
	})
}
