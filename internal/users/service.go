// Package users manages admin accounts.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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

var (
	ErrEmailExists   = errors.New("users: email already registered")
	ErrStatusInvalid = errors.New("users: status invalid")
)

// Service exposes account operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	// Update applies the UpdatableFields present in fields; anything else is
	// ignored.
	Update(ctx context.Context, id uuid.UUID, fields map[string]any, actor uuid.UUID) (*User, error)
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q listing.Query) (listing.Result[*User], error)
	RecordLogin(ctx context.Context, id uuid.UUID) (*User, error)
	Delete(ctx context.Context, id, actor uuid.UUID) error
	BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
	Statuses() []string
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

func validateUser(u *User) error {
	return ozzo.ValidateStruct(u,
		ozzo.Field(&u.Name, ozzo.Required, ozzo.Length(2, 120)),
		ozzo.Field(&u.Email, ozzo.Required, is.EmailFormat),
		ozzo.Field(&u.Role, ozzo.Required, ozzo.In(domain.Roles...)),
		ozzo.Field(&u.Status, ozzo.Required, ozzo.In(domain.UserStatuses.In()...)),
		ozzo.Field(&u.Avatar, ozzo.When(u.Avatar != "", is.URL)),
	)
}

func (s *service) ensureEmailFree(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.repo.FindOne(ctx, "email", email)
	if err != nil {
		if store.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return ErrEmailExists
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	now := s.now().UTC()
	user := &User{
		Name:      strings.TrimSpace(req.Name),
		Email:     normalizeEmail(req.Email),
		Role:      req.Role,
		Status:    domain.NormalizeStatus(string(req.Status)),
		Avatar:    strings.TrimSpace(req.Avatar),
		CreatedBy: req.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Role == "" {
		user.Role = domain.RoleViewer
	}
	if user.Status == "" {
		user.Status = domain.UserStatuses.Default()
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, user.Email, uuid.Nil); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	logging.WithEntity(s.logger, "user", created.ID.String()).Info("users.created", "role", created.Role)
	s.emitActivity(ctx, req.CreatedBy, domain.ActionCreate, created.ID.String(), map[string]any{
		"description": "created user " + created.Email,
	})
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, fields map[string]any, actor uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := shared.PickMap(fields, UpdatableFields...)
	encoded, err := json.Marshal(allowed)
	if err != nil {
		return nil, fmt.Errorf("users: encode patch: %w", err)
	}
	var p patch
	if err := json.Unmarshal(encoded, &p); err != nil {
		return nil, ozzo.Errors{"patch": ozzo.NewError("validation_invalid_patch", err.Error())}
	}

	if p.Name != nil {
		user.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		user.Email = normalizeEmail(*p.Email)
	}
	if p.Role != nil {
		user.Role = *p.Role
	}
	if p.Status != nil {
		user.Status = domain.NormalizeStatus(string(*p.Status))
	}
	if p.Avatar != nil {
		user.Avatar = strings.TrimSpace(*p.Avatar)
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if p.Email != nil {
		if err := s.ensureEmailFree(ctx, user.Email, user.ID); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("users.updated", "user_id", updated.ID, "fields", len(allowed))
	s.emitActivity(ctx, actor, domain.ActionUpdate, updated.ID.String(), map[string]any{
		"description": "updated user " + updated.Email,
	})
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindOne(ctx, "email", normalizeEmail(email))
}

func (s *service) List(ctx context.Context, q listing.Query) (listing.Result[*User], error) {
	return s.repo.List(ctx, q)
}

func (s *service) RecordLogin(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.emitActivity(ctx, id, domain.ActionLogin, id.String(), map[string]any{"description": "signed in"})
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id, actor uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("users.deleted", "user_id", id)
	s.emitActivity(ctx, actor, domain.ActionDelete, id.String(), map[string]any{"description": "deleted user"})
	return nil
}

func (s *service) BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error) {
	parsed, ok := domain.UserStatuses.Parse(status)
	if !ok || strings.TrimSpace(status) == "" {
		return 0, ErrStatusInvalid
	}
	modified, err := s.repo.UpdateStatus(ctx, ids, string(parsed))
	if err != nil {
		return 0, err
	}
	s.logger.Info("users.bulk_status", "ids", len(ids), "status", parsed, "modified", modified)
	s.emitActivity(ctx, uuid.Nil, domain.ActionBulkStatus, "", map[string]any{
		"status":      string(parsed),
		"modified":    modified,
		"description": "set users " + string(parsed),
	})
	return modified, nil
}

func (s *service) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("users.bulk_delete", "ids", len(ids), "deleted", deleted)
	s.emitActivity(ctx, uuid.Nil, domain.ActionBulkDelete, "", map[string]any{
		"deleted":     deleted,
		"description": "deleted users",
	})
	return deleted, nil
}

func (s *service) Statuses() []string {
	return domain.UserStatuses.Strings()
}

func (s *service) emitActivity(ctx context.Context, actor uuid.UUID, verb, objectID string, meta map[string]any) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	_ = s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: "user",
		ObjectID:   objectID,
		Metadata:   meta,
	})
}
