// Package content stores keyed JSON documents: page sections, menus, and
// site settings. Keys are dotted paths such as "home.hero" or "menu.main".
package content

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/store"
	"github.com/goliatone/go-sitecms/internal/validation"
	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

var ErrEntriesRequired = errors.New("content: at least one entry is required")

var keyPattern = regexp.MustCompile(`^[a-z0-9]+([._-][a-z0-9]+)*$`)

// Service exposes content operations.
type Service interface {
	Get(ctx context.Context, key string) (*Entry, error)
	// List returns every entry whose key starts with prefix, ordered by key.
	List(ctx context.Context, prefix string) ([]*Entry, error)
	Search(ctx context.Context, q listing.Query) (listing.Result[*Entry], error)
	// BulkUpsert validates every entry, then writes them all.
	BulkUpsert(ctx context.Context, entries []EntryInput, actor uuid.UUID) (int, error)
	Delete(ctx context.Context, key string, actor uuid.UUID) error
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

// WithSchemas replaces the schema registry used by BulkUpsert.
func WithSchemas(registry *validation.Registry) ServiceOption {
	return func(s *service) {
		s.schemas = registry
	}
}

type service struct {
	repo     Repository
	schemas  *validation.Registry
	now      func() time.Time
	logger   interfaces.Logger
	activity *activity.Emitter
}

// NewService returns the content service with the default schema registry.
func NewService(repo Repository, opts ...ServiceOption) (Service, error) {
	registry, err := DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("content: default schemas: %w", err)
	}
	s := &service{
		repo:     repo,
		schemas:  registry,
		now:      time.Now,
		logger:   logging.NoOp(),
		activity: activity.NewEmitter(nil, activity.Config{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (s *service) Get(ctx context.Context, key string) (*Entry, error) {
	return s.repo.GetByID(ctx, identity.ContentUUID(key))
}

func (s *service) List(ctx context.Context, prefix string) ([]*Entry, error) {
	prefix = normalizeKey(prefix)
	q := listing.NewQuery()
	q.Sort = map[string]int{"key": 1}
	entries, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]*Entry, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Key, prefix) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *service) Search(ctx context.Context, q listing.Query) (listing.Result[*Entry], error) {
	return s.repo.List(ctx, q)
}

func (s *service) validate(entries []EntryInput) error {
	errs := ozzo.Errors{}
	for i := range entries {
		entry := &entries[i]
		entry.Key = normalizeKey(entry.Key)
		err := ozzo.ValidateStruct(entry,
			ozzo.Field(&entry.Key, ozzo.Required, ozzo.Length(1, 128), ozzo.Match(keyPattern)),
			ozzo.Field(&entry.Data, ozzo.NotNil),
		)
		if err == nil {
			err = s.schemas.Validate(entry.Key, entry.Data)
			if err != nil {
				err = ozzo.Errors{"data": ozzo.NewError("validation_schema", err.Error())}
			}
		}
		if err != nil {
			errs[fmt.Sprintf("%d", i)] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *service) BulkUpsert(ctx context.Context, entries []EntryInput, actor uuid.UUID) (int, error) {
	if len(entries) == 0 {
		return 0, ErrEntriesRequired
	}
	inputs := append([]EntryInput(nil), entries...)
	if err := s.validate(inputs); err != nil {
		return 0, err
	}

	now := s.now().UTC()
	written := 0
	for _, input := range inputs {
		if err := s.write(ctx, input, actor, now); err != nil {
			return written, err
		}
		written++
	}
	s.logger.Info("content.bulk_upsert", "entries", written)
	s.emitActivity(ctx, actor, domain.ActionUpdate, "", map[string]any{
		"upserted":    written,
		"description": fmt.Sprintf("saved %d content entries", written),
	})
	return written, nil
}

func (s *service) write(ctx context.Context, input EntryInput, actor uuid.UUID, now time.Time) error {
	id := identity.ContentUUID(input.Key)
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil && !store.IsNotFound(err) {
		return err
	}
	if existing == nil {
		_, err = s.repo.Create(ctx, &Entry{
			ID:        id,
			Key:       input.Key,
			Data:      input.Data,
			UpdatedBy: actor,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	}
	existing.Data = input.Data
	existing.UpdatedBy = actor
	existing.UpdatedAt = now
	_, err = s.repo.Update(ctx, existing)
	return err
}

func (s *service) Delete(ctx context.Context, key string, actor uuid.UUID) error {
	key = normalizeKey(key)
	if err := s.repo.Delete(ctx, identity.ContentUUID(key)); err != nil {
		return err
	}
	s.logger.Info("content.deleted", "key", key)
	s.emitActivity(ctx, actor, domain.ActionDelete, key, map[string]any{"description": "deleted content " + key})
	return nil
}

func (s *service) emitActivity(ctx context.Context, actor uuid.UUID, verb, objectID string, meta map[string]any) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	_ = s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: "content",
		ObjectID:   objectID,
		Metadata:   meta,
	})
}
