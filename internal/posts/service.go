// Package posts manages the bilingual blog.
package posts

import (
	"context"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/markdown"
	"github.com/goliatone/go-sitecms/internal/store"
	"github.com/goliatone/go-sitecms/internal/urls"
	"github.com/goliatone/go-sitecms/pkg/activity"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Service exposes blog operations.
type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, req UpdatePostRequest) (*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	// GetBySlug returns a published post and counts the view.
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, q listing.Query) (listing.Result[*Post], error)
	ListPublished(ctx context.Context, q listing.Query) (listing.Result[*Post], error)
	Delete(ctx context.Context, id, actor uuid.UUID) error
	BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error)
	Statuses() []string
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
	Render(ctx context.Context, post *Post, locale shared.Locale) (*Rendered, error)
	ImportMarkdown(ctx context.Context, docs []markdown.Document, opts ImportOptions) (ImportResult, error)
}

// ServiceOption configures the post service.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithActivityEmitter wires the emitter used for activity records.
func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		if emitter != nil {
			s.activity = emitter
		}
	}
}

// WithRenderer sets the markdown renderer used by Render and reading time.
func WithRenderer(renderer *markdown.Renderer) ServiceOption {
	return func(s *service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithURLResolver lets Render attach public URLs.
func WithURLResolver(resolver *urls.Resolver) ServiceOption {
	return func(s *service) {
		s.urls = resolver
	}
}

// WithWordsPerMinute overrides the reading rate.
func WithWordsPerMinute(wpm int) ServiceOption {
	return func(s *service) {
		if wpm > 0 {
			s.wordsPerMinute = wpm
		}
	}
}

type service struct {
	repo           Repository
	now            func() time.Time
	logger         interfaces.Logger
	activity       *activity.Emitter
	renderer       *markdown.Renderer
	urls           *urls.Resolver
	localizer      shared.Localizer
	wordsPerMinute int
}

// NewService constructs the post service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:           repo,
		now:            time.Now,
		logger:         logging.NoOp(),
		activity:       activity.NewEmitter(nil, activity.Config{}),
		renderer:       markdown.NewRenderer(markdown.Options{Sanitize: true}),
		localizer:      shared.Localizer{Default: shared.DefaultLocale},
		wordsPerMinute: shared.DefaultWordsPerMinute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	status, ok := domain.PublicationStatuses.Parse(req.Status)
	if !ok {
		return nil, ErrStatusInvalid
	}
	post := &Post{
		Title:       req.Title.Trimmed(),
		Excerpt:     req.Excerpt.Trimmed(),
		Content:     req.Content.Trimmed(),
		Author:      req.Author.normalized(),
		Category:    req.Category.normalized(),
		Tags:        normalizeTags(req.Tags),
		CoverImage:  strings.TrimSpace(req.CoverImage),
		Status:      status,
		Featured:    req.Featured,
		PublishedAt: req.PublishedAt,
		CreatedBy:   req.ActorID,
		UpdatedBy:   req.ActorID,
	}
	if err := validatePost(post); err != nil {
		return nil, err
	}

	postSlug, err := s.resolveSlug(ctx, req.Slug, post.Title, uuid.Nil)
	if err != nil {
		return nil, err
	}
	post.Slug = postSlug

	now := s.now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	s.prepare(post, now)

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	s.logger.Info("posts.created", "post_id", created.ID, "slug", created.Slug, "status", created.Status)
	s.emitActivity(ctx, req.ActorID, domain.ActionCreate, created, nil)
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPostIDRequired
	}
	post, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		post.Title = req.Title.Trimmed()
	}
	if req.Excerpt != nil {
		post.Excerpt = req.Excerpt.Trimmed()
	}
	if req.Content != nil {
		post.Content = req.Content.Trimmed()
	}
	if req.Author != nil {
		post.Author = req.Author.normalized()
	}
	if req.Category != nil {
		post.Category = req.Category.normalized()
	}
	if req.Tags != nil {
		post.Tags = normalizeTags(*req.Tags)
	}
	if req.CoverImage != nil {
		post.CoverImage = strings.TrimSpace(*req.CoverImage)
	}
	if req.Featured != nil {
		post.Featured = *req.Featured
	}
	if req.PublishedAt != nil {
		at := req.PublishedAt.UTC()
		post.PublishedAt = &at
	}
	if req.Status != nil {
		status, ok := domain.PublicationStatuses.Parse(*req.Status)
		if !ok {
			return nil, ErrStatusInvalid
		}
		post.Status = status
	}
	if err := validatePost(post); err != nil {
		return nil, err
	}
	if req.Slug != nil {
		postSlug, err := s.resolveSlug(ctx, *req.Slug, post.Title, post.ID)
		if err != nil {
			return nil, err
		}
		post.Slug = postSlug
	}

	now := s.now().UTC()
	post.UpdatedAt = now
	post.UpdatedBy = req.ActorID
	s.prepare(post, now)

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return nil, err
	}
	s.logger.Info("posts.updated", "post_id", updated.ID, "slug", updated.Slug)
	s.emitActivity(ctx, req.ActorID, domain.ActionUpdate, updated, nil)
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, postSlug string) (*Post, error) {
	postSlug = strings.TrimSpace(postSlug)
	post, err := s.repo.FindOne(ctx, "slug", postSlug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, &store.NotFoundError{Resource: "post", Key: postSlug}
	}
	views, err := s.repo.Increment(ctx, post.ID, "views", 1)
	if err != nil {
		s.logger.Warn("posts.view_count_failed", "post_id", post.ID, "error", err)
		return post, nil
	}
	post.Views = views
	return post, nil
}

func (s *service) List(ctx context.Context, q listing.Query) (listing.Result[*Post], error) {
	return s.repo.List(ctx, q)
}

func (s *service) ListPublished(ctx context.Context, q listing.Query) (listing.Result[*Post], error) {
	q = q.WithFilter("status", string(domain.StatusPublished))
	if _, ok := q.Sort["createdAt"]; ok || len(q.Sort) == 0 {
		q.Sort = shared.SortDirective{"publishedAt": shared.SortDesc}
	}
	return s.repo.List(ctx, q)
}

func (s *service) Delete(ctx context.Context, id, actor uuid.UUID) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("posts.deleted", "post_id", id)
	s.emitActivity(ctx, actor, domain.ActionDelete, post, nil)
	return nil
}

func (s *service) BulkStatus(ctx context.Context, ids []uuid.UUID, status string) (int, error) {
	parsed, ok := domain.PublicationStatuses.Parse(status)
	if !ok || strings.TrimSpace(status) == "" {
		return 0, ErrStatusInvalid
	}
	modified, err := s.repo.UpdateStatus(ctx, ids, string(parsed))
	if err != nil {
		return 0, err
	}
	if parsed == domain.StatusPublished {
		s.stampPublished(ctx, ids)
	}
	s.logger.Info("posts.bulk_status", "ids", len(ids), "status", parsed, "modified", modified)
	s.emitBulk(ctx, domain.ActionBulkStatus, ids, map[string]any{"status": string(parsed), "modified": modified})
	return modified, nil
}

// stampPublished sets publishedAt on posts published through a bulk action.
func (s *service) stampPublished(ctx context.Context, ids []uuid.UUID) {
	for _, id := range ids {
		post, err := s.repo.GetByID(ctx, id)
		if err != nil || post.PublishedAt != nil {
			continue
		}
		now := s.now().UTC()
		post.PublishedAt = &now
		if _, err := s.repo.Update(ctx, post); err != nil {
			s.logger.Warn("posts.stamp_published_failed", "post_id", id, "error", err)
		}
	}
}

func (s *service) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	deleted, err := s.repo.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info("posts.bulk_delete", "ids", len(ids), "deleted", deleted)
	s.emitBulk(ctx, domain.ActionBulkDelete, ids, map[string]any{"deleted": deleted})
	return deleted, nil
}

func (s *service) Statuses() []string {
	return domain.PublicationStatuses.Strings()
}

func (s *service) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	counts := make(map[domain.Status]int, len(domain.PublicationStatuses))
	for _, status := range domain.PublicationStatuses {
		total, err := store.Count(ctx, s.repo, listing.NewQuery().WithFilter("status", string(status)))
		if err != nil {
			return nil, err
		}
		counts[status] = total
	}
	return counts, nil
}

func (s *service) resolveSlug(ctx context.Context, explicit string, title shared.BilingualText, self uuid.UUID) (string, error) {
	postSlug := shared.FirstSlug(explicit, title.En, title.Ar)
	if postSlug == "" {
		return "", ErrSlugRequired
	}
	if !slug.IsValid(postSlug) {
		return "", ErrSlugInvalid
	}
	existing, err := s.repo.FindOne(ctx, "slug", postSlug)
	switch {
	case err == nil && existing.ID != self:
		return "", ErrSlugExists
	case err != nil && !store.IsNotFound(err):
		return "", err
	}
	return postSlug, nil
}

// prepare recomputes derived fields before a write.
func (s *service) prepare(post *Post, now time.Time) {
	post.ReadingTime = ReadingTime{
		Ar: s.readingTime(post.Content.Ar),
		En: s.readingTime(post.Content.En),
	}
	if post.Status == domain.StatusPublished && post.PublishedAt == nil {
		post.PublishedAt = &now
	}
}

// readingTime counts words of the rendered text, at least one minute for
// non-empty content.
func (s *service) readingTime(source string) int {
	if strings.TrimSpace(source) == "" {
		return 0
	}
	text, err := s.renderer.PlainText(source)
	if err != nil {
		text = source
	}
	return max(shared.CalculateReadingTime(text, s.wordsPerMinute), 1)
}

func validatePost(post *Post) error {
	return ozzo.ValidateStruct(post,
		ozzo.Field(&post.Title,
			ozzo.By(requireAnyLocale("title")),
			ozzo.When(post.Status == domain.StatusPublished, ozzo.By(requireAllLocales("title"))),
		),
		ozzo.Field(&post.Content, ozzo.By(requireAnyLocale("content"))),
		ozzo.Field(&post.Status, ozzo.Required, ozzo.In(domain.PublicationStatuses.In()...)),
		ozzo.Field(&post.Author, ozzo.By(func(any) error {
			if post.Author.Name == "" {
				return ozzo.NewError("posts.author_required", "author name is required")
			}
			return nil
		})),
	)
}

func requireAnyLocale(field string) ozzo.RuleFunc {
	return func(value any) error {
		text, _ := value.(shared.BilingualText)
		if text.IsEmpty() {
			return ozzo.NewError("posts."+field+"_required", field+" is required in at least one locale")
		}
		return nil
	}
}

func requireAllLocales(field string) ozzo.RuleFunc {
	return func(value any) error {
		text, _ := value.(shared.BilingualText)
		if missing := text.Missing(); len(missing) > 0 {
			locales := make([]string, len(missing))
			for i, locale := range missing {
				locales[i] = string(locale)
			}
			return ozzo.NewError("posts."+field+"_incomplete",
				"published posts need a "+field+" for: "+strings.Join(locales, ", "))
		}
		return nil
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (s *service) emitActivity(ctx context.Context, actor uuid.UUID, verb string, post *Post, meta map[string]any) {
	if s.activity == nil || !s.activity.Enabled() || post == nil {
		return
	}
	metadata := map[string]any{
		"slug":        post.Slug,
		"description": verb + " post " + s.localizer.Text(post.Title, shared.DefaultLocale),
	}
	for key, value := range meta {
		metadata[key] = value
	}
	_ = s.activity.Emit(ctx, activity.Event{
		Verb:       verb,
		ActorID:    actor.String(),
		ObjectType: "post",
		ObjectID:   post.ID.String(),
		Metadata:   metadata,
	})
}

func (s *service) emitBulk(ctx context.Context, verb string, ids []uuid.UUID, meta map[string]any) {
	if s.activity == nil || !s.activity.Enabled() {
		return
	}
	meta["ids"] = len(ids)
	meta["description"] = verb + " posts"
	_ = s.activity.Emit(ctx, activity.Event{Verb: verb, ObjectType: "post", Metadata: meta})
}
