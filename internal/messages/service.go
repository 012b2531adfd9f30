// Package messages implements the contact form inbox.
package messages

import (
	"context"
	"errors"
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
)

var (
	ErrStatusInvalid = errors.New("messages: status invalid")
	ErrReplyRequired = errors.New("messages: reply is required")
)

// Notifier is told about new submissions.
type Notifier interface {
	MessageReceived(ctx context.Context, msg *Message) error
}

// Service exposes inbox operations.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Message, error)
	// Get returns the message, marking it read when it was unread.
	Get(ctx context.Context, id uuid.UUID) (*Message, error)
	List(ctx context.Context, q listing.Query) (listing.Result[*Message], error)
	Reply(ctx context.Context, req ReplyRequest) (*Message, error)
	Delete(ctx context.Context, id, actor uuid.UUID) error
	BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
	Statuses() []string
	Stats(ctx context.Context) (Stats, error)
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

// WithNotifier announces new submissions, typically as admin notifications.
func WithNotifier(notifier Notifier) ServiceOption {
	return func(s *service) {
		s.notifier = notifier
	}
}

type service struct {
	repo     Repository
	now      func() time.Time
	logger   interfaces.Logger
	activity *activity.Emitter
	notifier Notifier
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

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Message, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Body = strings.TrimSpace(req.Body)

	err := ozzo.ValidateStruct(&req,
		ozzo.Field(&req.Name, ozzo.Required, ozzo.Length(2, 120)),
		ozzo.Field(&req.Email, ozzo.Required, is.EmailFormat),
		ozzo.Field(&req.Phone, ozzo.Length(0, 32)),
		ozzo.Field(&req.Subject, ozzo.Required, ozzo.Length(1, 200)),
		ozzo.Field(&req.Body, ozzo.Required, ozzo.Length(10, 5000)),
	)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	msg := &Message{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Body:      req.Body,
		Locale:    strings.TrimSpace(req.Locale),
		Status:    domain.MessageStatuses.Default(),
		IP:        strings.TrimSpace(req.IP),
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("messages.submitted", "message_id", created.ID)
	if s.notifier != nil {
		if err := s.notifier.MessageReceived(ctx, created); err != nil {
			s.logger.Warn("messages.notify_failed", "message_id", created.ID, "error", err)
		}
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Status != domain.StatusUnread {
		return msg, nil
	}
	msg.Status = domain.StatusRead
	msg.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, msg)
}

func (s *service) List(ctx context.Context, q listing.Query) (listing.Result[*Message], error) {
	return s.repo.List(ctx, q)
}

func (s *service) Reply(ctx context.Context, req ReplyRequest) (*Message, error) {
	reply := strings.TrimSpace(req.Reply)
	if reply == "" {
		return nil, ErrReplyRequired
	}
	msg, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	msg.Reply = reply
	msg.RepliedAt = &now
	msg.RepliedBy = req.ActorID
	msg.Status = domain.StatusReplied
	msg.UpdatedAt = now

	updated, err := s.repo.Update(ctx, msg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("messages.replied", "message_id", updated.ID)
	s.emitActivity(ctx, req.ActorID, domain.ActionReply, updated.ID.String(), map[string]any{
		"description": "replied to " + updated.Email,
	})
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id, actor uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.emitActivity(ctx, actor, domain.ActionDelete, id.String(), map[string]any{"description": "deleted message"})
	return nil
}

func (s *service) BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error) {
	parsed, ok := domain.MessageStatuses.Parse(status)
	if !ok || strings.TrimSpace(status) == "" {
		return 0, ErrStatusInvalid
	}
	modified, err := s.repo.UpdateStatus(ctx, ids, string(parsed))
	if err != nil {
		return 0, err
	}
	s.logger.Info("messages.bulk_status", "ids", len(ids), "status", parsed, "modified", modified)
	s.emitActivity(ctx, uuid.Nil, domain.ActionBulkStatus, "", map[string]any{
		"status":      string(parsed),
		"modified":    modified,
		"description": "marked messages " + string(parsed),
	})
	return modified, nil
}

func (s *service) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("messages.bulk_delete", "ids", len(ids), "deleted", deleted)
	s.emitActivity(ctx, uuid.Nil, domain.ActionBulkDelete, "", map[string]any{
		"deleted":     deleted,
		"description": "deleted messages",
	})
	return deleted, nil
}

func (s *service) Statuses() []string {
	return domain.MessageStatuses.Strings()
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: make(map[domain.Status]int, len(domain.MessageStatuses))}
	for _, status := range domain.MessageStatuses {
		count, err := store.Count(ctx, s.repo, listing.NewQuery().WithFilter("status", string(status)))
		if err != nil {
			return Stats{}, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	return stats, nil
}

func (s *service) emitActivity(ctx context.Context, actor uuid.UUID, verb, objectID string, meta map[string]any) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	_ = s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: "message",
		ObjectID:   objectID,
		Metadata:   meta,
	})
}
