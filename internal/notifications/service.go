// Package notifications implements admin notifications and per-user
// notification preferences.
package notifications

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
	"github.com/goliatone/go-sitecms/internal/messages"
	"github.com/goliatone/go-sitecms/internal/store"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

var ErrStateInvalid = errors.New("notifications: status must be read or unread")

// Service exposes notification operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Notification, error)
	List(ctx context.Context, q listing.Query) (listing.Result[*Notification], error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, ids []uuid.UUID) (int, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)
	BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
	Statuses() []string

	// Settings returns the user's preferences, or the defaults when none
	// are stored or the stored document is unreadable.
	Settings(ctx context.Context, userID uuid.UUID) (Settings, error)
	SaveSettings(ctx context.Context, userID uuid.UUID, settings Settings) (Settings, error)
	ResetSettings(ctx context.Context, userID uuid.UUID) error

	// MessageReceived turns a contact submission into a notification.
	MessageReceived(ctx context.Context, msg *messages.Message) error
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

// WithSettingsRepository overrides the in-memory preferences store.
func WithSettingsRepository(repo SettingsRepository) ServiceOption {
	return func(s *service) {
		if repo != nil {
			s.settings = repo
		}
	}
}

type service struct {
	repo     Repository
	settings SettingsRepository
	now      func() time.Time
	logger   interfaces.Logger
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:     repo,
		settings: NewMemorySettingsRepository(),
		now:      time.Now,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Notification, error) {
	req.Link = strings.TrimSpace(req.Link)
	if req.Type == "" {
		req.Type = domain.NotificationInfo
	}
	err := ozzo.ValidateStruct(&req,
		ozzo.Field(&req.Title, ozzo.By(func(any) error {
			if req.Title.IsEmpty() {
				return ozzo.NewError("validation_required", "cannot be blank")
			}
			return nil
		})),
		ozzo.Field(&req.Type, ozzo.In(domain.NotificationTypes...)),
		ozzo.Field(&req.Link, ozzo.When(req.Link != "" && !strings.HasPrefix(req.Link, "/"), is.URL)),
	)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Notification{
		UserID:    req.UserID,
		Title:     req.Title,
		Body:      req.Body,
		Type:      req.Type,
		Link:      req.Link,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("notifications.created", "notification_id", created.ID, "type", created.Type)
	return created, nil
}

func (s *service) List(ctx context.Context, q listing.Query) (listing.Result[*Notification], error) {
	return s.repo.List(ctx, q)
}

func (s *service) unread(ctx context.Context, userID uuid.UUID) ([]*Notification, error) {
	items, err := s.repo.Find(ctx, listing.NewQuery().WithFilter("status", StateUnread))
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		if item.Addressed(userID) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	items, err := s.unread(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *service) MarkRead(ctx context.Context, ids []uuid.UUID) (int, error) {
	return s.setRead(ctx, ids, true)
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	items, err := s.unread(ctx, userID)
	if err != nil {
		return 0, err
	}
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return s.setRead(ctx, ids, true)
}

func (s *service) BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StateRead:
		return s.setRead(ctx, ids, true)
	case StateUnread:
		return s.setRead(ctx, ids, false)
	default:
		return 0, ErrStateInvalid
	}
}

// setRead flips the read flag of each existing notification whose state
// differs and returns how many changed. Unknown ids are skipped.
func (s *service) setRead(ctx context.Context, ids []uuid.UUID, read bool) (int, error) {
	now := s.now().UTC()
	modified := 0
	for _, id := range ids {
		item, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if store.IsNotFound(err) {
				continue
			}
			return modified, err
		}
		if item.Read == read {
			continue
		}
		item.Read = read
		item.ReadAt = nil
		if read {
			item.ReadAt = &now
		}
		if _, err := s.repo.Update(ctx, item); err != nil {
			return modified, err
		}
		modified++
	}
	s.logger.Debug("notifications.read_state", "ids", len(ids), "read", read, "modified", modified)
	return modified, nil
}

func (s *service) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("notifications.bulk_delete", "ids", len(ids), "deleted", deleted)
	return deleted, nil
}

func (s *service) Statuses() []string {
	return []string{StateRead, StateUnread}
}

func (s *service) Settings(ctx context.Context, userID uuid.UUID) (Settings, error) {
	if userID == uuid.Nil {
		return Settings{}, ErrUserRequired
	}
	settings, err := s.settings.Get(ctx, userID)
	switch {
	case err == nil:
		return settings, nil
	case errors.Is(err, ErrSettingsNotFound):
		return DefaultSettings(), nil
	case errors.Is(err, ErrSettingsUnreadable):
		s.logger.Warn("notifications.settings_unreadable", "user_id", userID, "error", err)
		return DefaultSettings(), nil
	default:
		return Settings{}, err
	}
}

func (s *service) SaveSettings(ctx context.Context, userID uuid.UUID, settings Settings) (Settings, error) {
	if userID == uuid.Nil {
		return Settings{}, ErrUserRequired
	}
	saved, err := s.settings.Save(ctx, userID, settings)
	if err != nil {
		return Settings{}, err
	}
	s.logger.Info("notifications.settings_saved", "user_id", userID)
	return saved, nil
}

func (s *service) ResetSettings(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUserRequired
	}
	if err := s.settings.Delete(ctx, userID); err != nil && !errors.Is(err, ErrSettingsNotFound) {
		return err
	}
	return nil
}

func (s *service) MessageReceived(ctx context.Context, msg *messages.Message) error {
	if msg == nil {
		return nil
	}
	subject := shared.TruncateText(msg.Subject, 80)
	_, err := s.Create(ctx, CreateRequest{
		Title: shared.BilingualText{
			En: "New message from " + msg.Name,
			Ar: "رسالة جديدة من " + msg.Name,
		},
		Body: shared.BilingualText{En: subject, Ar: subject},
		Type: domain.NotificationInfo,
		Link: "/admin/messages/" + msg.ID.String(),
	})
	return err
}
