// Package portfolio manages the projects and services showcased on the site.
package portfolio

import (
	"context"
	"errors"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
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
	ErrSlugRequired  = errors.New("portfolio: slug is required")
	ErrSlugExists    = errors.New("portfolio: slug already exists for kind")
	ErrStatusInvalid = errors.New("portfolio: status invalid")
)

// Service exposes portfolio operations.
type Service interface {
	Create(ctx context.Context, input ItemInput) (*Item, error)
	Update(ctx context.Context, id uuid.UUID, input ItemInput) (*Item, error)
	Get(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, q listing.Query) (listing.Result[*Item], error)
	// Published lists published items of kind ordered by their display order.
	Published(ctx context.Context, kind domain.PortfolioKind, q listing.Query) (listing.Result[*Item], error)
	GetPublished(ctx context.Context, kind domain.PortfolioKind, slug string) (*Item, error)
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

func (s *service) Create(ctx context.Context, input ItemInput) (*Item, error) {
	item := &Item{}
	if err := s.apply(ctx, item, input); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, err
	}
	s.logger.Info("portfolio.created", "item_id", created.ID, "kind", created.Kind, "slug", created.Slug)
	s.emitActivity(ctx, input.ActorID, domain.ActionCreate, created)
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input ItemInput) (*Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, item, input); err != nil {
		return nil, err
	}
	item.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, err
	}
	s.emitActivity(ctx, input.ActorID, domain.ActionUpdate, updated)
	return updated, nil
}

func (s *service) apply(ctx context.Context, item *Item, input ItemInput) error {
	status, ok := domain.PublicationStatuses.Parse(input.Status)
	if !ok {
		return ErrStatusInvalid
	}
	item.Kind = domain.PortfolioKind(strings.ToLower(strings.TrimSpace(input.Kind)))
	item.Title = input.Title.Trimmed()
	item.Summary = input.Summary.Trimmed()
	item.Body = input.Body.Trimmed()
	item.Category = strings.TrimSpace(input.Category)
	item.Image = strings.TrimSpace(input.Image)
	item.Status = status
	item.Featured = input.Featured
	item.Order = input.Order

	err := ozzo.ValidateStruct(item,
		ozzo.Field(&item.Kind, ozzo.Required, ozzo.In(domain.PortfolioKinds...)),
		ozzo.Field(&item.Title, ozzo.By(func(any) error {
			if item.Title.IsEmpty() {
				return ozzo.NewError("portfolio.title_required", "title is required in at least one locale")
			}
			return nil
		})),
		ozzo.Field(&item.Order, ozzo.Min(0)),
	)
	if err != nil {
		return err
	}

	itemSlug := shared.FirstSlug(input.Slug, item.Title.En, item.Title.Ar)
	if itemSlug == "" {
		return ErrSlugRequired
	}
	q := listing.NewQuery().WithFilter("kind", string(item.Kind))
	siblings, err := s.repo.Find(ctx, q)
	if err != nil {
		return err
	}
	for _, sibling := range siblings {
		if sibling.Slug == itemSlug && sibling.ID != item.ID {
			return ErrSlugExists
		}
	}
	item.Slug = itemSlug
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, q listing.Query) (listing.Result[*Item], error) {
	return s.repo.List(ctx, q)
}

func (s *service) Published(ctx context.Context, kind domain.PortfolioKind, q listing.Query) (listing.Result[*Item], error) {
	q = q.WithFilter("kind", string(kind)).WithFilter("status", string(domain.StatusPublished))
	q.Sort = shared.SortDirective{"order": shared.SortAsc}
	return s.repo.List(ctx, q)
}

func (s *service) GetPublished(ctx context.Context, kind domain.PortfolioKind, itemSlug string) (*Item, error) {
	q := listing.NewQuery().
		WithFilter("kind", string(kind)).
		WithFilter("status", string(domain.StatusPublished))
	items, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.Slug == itemSlug {
			return item, nil
		}
	}
	return nil, &store.NotFoundError{Resource: string(kind), Key: itemSlug}
}

func (s *service) Delete(ctx context.Context, id, actor uuid.UUID) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.emitActivity(ctx, actor, domain.ActionDelete, item)
	return nil
}

func (s *service) BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error) {
	parsed, ok := domain.PublicationStatuses.Parse(status)
	if !ok || strings.TrimSpace(status) == "" {
		return 0, ErrStatusInvalid
	}
	return s.repo.UpdateStatus(ctx, ids, string(parsed))
}

func (s *service) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	return s.repo.DeleteMany(ctx, ids)
}

func (s *service) Statuses() []string {
	return domain.PublicationStatuses.Strings()
}

func (s *service) emitActivity(ctx context.Context, actor uuid.UUID, verb string, item *Item) {
	if s.activity == nil || !s.activity.Enabled() || item == nil {
		return
	}
	_ = s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: string(item.Kind),
		ObjectID:   item.ID.String(),
		Metadata: map[string]any{
			"slug":        item.Slug,
			"description": verb + " " + string(item.Kind) + " " + item.Title.Get(shared.DefaultLocale),
		},
	})
}
