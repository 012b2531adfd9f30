// Package translations manages the bilingual UI string catalogue and serves
// flattened per-locale bundles.
package translations

import (
	"context"
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
	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

var (
	namespacePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	keyPattern       = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
)

// Service exposes catalogue operations.
type Service interface {
	List(ctx context.Context, q listing.Query) (listing.Result[*Item], error)
	Get(ctx context.Context, namespace, key string) (*Item, error)
	Upsert(ctx context.Context, input ItemInput) (*Item, error)
	// BulkUpsert validates every input before writing any of them.
	BulkUpsert(ctx context.Context, inputs []ItemInput) (int, error)
	Delete(ctx context.Context, id, actor uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
	// Bundle flattens the catalogue for locale, falling back to the default
	// locale for missing values.
	Bundle(ctx context.Context, locale shared.Locale) (map[string]string, error)
	Missing(ctx context.Context) (MissingReport, error)
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

// WithDefaultLocale sets the bundle fallback locale.
func WithDefaultLocale(locale shared.Locale) ServiceOption {
	return func(s *service) {
		if locale.IsSupported() {
			s.localizer.Default = locale
		}
	}
}

type service struct {
	repo      Repository
	now       func() time.Time
	logger    interfaces.Logger
	activity  *activity.Emitter
	localizer shared.Localizer
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:      repo,
		now:       time.Now,
		logger:    logging.NoOp(),
		activity:  activity.NewEmitter(nil, activity.Config{}),
		localizer: shared.Localizer{Default: shared.DefaultLocale},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeInput(input ItemInput) ItemInput {
	input.Namespace = strings.ToLower(strings.TrimSpace(input.Namespace))
	input.Key = strings.TrimSpace(input.Key)
	input.Value = input.Value.Trimmed()
	input.Description = strings.TrimSpace(input.Description)
	return input
}

func validateInput(input *ItemInput) error {
	return ozzo.ValidateStruct(input,
		ozzo.Field(&input.Namespace, ozzo.Required, ozzo.Length(1, 64), ozzo.Match(namespacePattern)),
		ozzo.Field(&input.Key, ozzo.Required, ozzo.Length(1, 128), ozzo.Match(keyPattern)),
		ozzo.Field(&input.Value, ozzo.By(func(any) error {
			if input.Value.IsEmpty() {
				return ozzo.NewError("validation_required", "at least one locale is required")
			}
			return nil
		})),
	)
}

func (s *service) List(ctx context.Context, q listing.Query) (listing.Result[*Item], error) {
	return s.repo.List(ctx, q)
}

func (s *service) Get(ctx context.Context, namespace, key string) (*Item, error) {
	return s.repo.GetByID(ctx, identity.TranslationUUID(namespace, key))
}

func (s *service) Upsert(ctx context.Context, input ItemInput) (*Item, error) {
	input = normalizeInput(input)
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	item, created, err := s.write(ctx, input)
	if err != nil {
		return nil, err
	}
	verb := domain.ActionUpdate
	if created {
		verb = domain.ActionCreate
	}
	s.logger.Debug("translations.upserted", "key", item.FullKey(), "created", created)
	s.emitActivity(ctx, input.ActorID, verb, item.ID.String(), map[string]any{
		"description": verb + " translation " + item.FullKey(),
	})
	return item, nil
}

func (s *service) BulkUpsert(ctx context.Context, inputs []ItemInput) (int, error) {
	normalized := make([]ItemInput, len(inputs))
	errs := ozzo.Errors{}
	for i, input := range inputs {
		normalized[i] = normalizeInput(input)
		if err := validateInput(&normalized[i]); err != nil {
			errs[fmt.Sprintf("%d", i)] = err
		}
	}
	if len(errs) > 0 {
		return 0, errs
	}

	written := 0
	var actor uuid.UUID
	for _, input := range normalized {
		if _, _, err := s.write(ctx, input); err != nil {
			return written, err
		}
		written++
		actor = input.ActorID
	}
	s.logger.Info("translations.bulk_upsert", "items", written)
	s.emitActivity(ctx, actor, domain.ActionImport, "", map[string]any{
		"upserted":    written,
		"description": fmt.Sprintf("saved %d translations", written),
	})
	return written, nil
}

func (s *service) write(ctx context.Context, input ItemInput) (*Item, bool, error) {
	id := identity.TranslationUUID(input.Namespace, input.Key)
	now := s.now().UTC()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil && !store.IsNotFound(err) {
		return nil, false, err
	}
	if existing == nil {
		created, err := s.repo.Create(ctx, &Item{
			ID:          id,
			Namespace:   input.Namespace,
			Key:         input.Key,
			Value:       input.Value,
			Description: input.Description,
			UpdatedBy:   input.ActorID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return created, true, err
	}

	existing.Value = input.Value
	if input.Description != "" {
		existing.Description = input.Description
	}
	existing.UpdatedBy = input.ActorID
	existing.UpdatedAt = now
	updated, err := s.repo.Update(ctx, existing)
	return updated, false, err
}

func (s *service) Delete(ctx context.Context, id, actor uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.emitActivity(ctx, actor, domain.ActionDelete, id.String(), map[string]any{"description": "deleted translation"})
	return nil
}

func (s *service) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("translations.bulk_delete", "ids", len(ids), "deleted", deleted)
	return deleted, nil
}

func (s *service) all(ctx context.Context) ([]*Item, error) {
	q := listing.NewQuery()
	q.Sort = shared.SortDirective{"key": shared.SortAsc}
	return s.repo.Find(ctx, q)
}

func (s *service) Bundle(ctx context.Context, locale shared.Locale) (map[string]string, error) {
	items, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	bundle := make(map[string]string, len(items))
	for _, item := range items {
		bundle[item.FullKey()] = s.localizer.Text(item.Value, locale)
	}
	return bundle, nil
}

func (s *service) Missing(ctx context.Context) (MissingReport, error) {
	items, err := s.all(ctx)
	if err != nil {
		return MissingReport{}, err
	}
	report := MissingReport{
		Total:    len(items),
		ByLocale: make(map[shared.Locale]int, len(shared.SupportedLocales)),
		Items:    []*Item{},
	}
	for _, locale := range shared.SupportedLocales {
		report.ByLocale[locale] = 0
	}
	for _, item := range items {
		missing := item.Value.Missing()
		if len(missing) == 0 {
			report.Complete++
			continue
		}
		for _, locale := range missing {
			report.ByLocale[locale]++
		}
		report.Items = append(report.Items, item)
	}
	return report, nil
}

func (s *service) emitActivity(ctx context.Context, actor uuid.UUID, verb, objectID string, meta map[string]any) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	_ = s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: "translation",
		ObjectID:   objectID,
		Metadata:   meta,
	})
}
