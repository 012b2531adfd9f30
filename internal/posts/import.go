package posts

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/markdown"
	"github.com/goliatone/go-sitecms/internal/store"
	"github.com/goliatone/go-sitecms/pkg/shared"
)

// ImportMarkdown turns markdown documents into posts. Documents sharing a key
// ("hello.en.md", "hello.ar.md") become one bilingual post. Existing slugs are
// skipped unless opts.Overwrite is set. Per-post failures are collected in the
// result and do not abort the run.
func (s *service) ImportMarkdown(ctx context.Context, docs []markdown.Document, opts ImportOptions) (ImportResult, error) {
	result := ImportResult{Errors: map[string]string{}}

	groups := map[string][]markdown.Document{}
	var keys []string
	for _, doc := range docs {
		key := doc.Key()
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], doc)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		req := requestFromDocuments(key, groups[key], opts)

		existing, err := s.repo.FindOne(ctx, "slug", shared.GenerateSlug(req.Slug))
		switch {
		case err == nil && !opts.Overwrite:
			result.Skipped = append(result.Skipped, existing.Slug)
			continue
		case err == nil:
			update := UpdatePostRequest{
				ID:          existing.ID,
				Title:       &req.Title,
				Excerpt:     &req.Excerpt,
				Content:     &req.Content,
				Author:      &req.Author,
				Category:    &req.Category,
				Tags:        &req.Tags,
				CoverImage:  &req.CoverImage,
				Status:      &req.Status,
				Featured:    &req.Featured,
				PublishedAt: req.PublishedAt,
				ActorID:     opts.ActorID,
			}
			if _, err := s.Update(ctx, update); err != nil {
				result.Errors[key] = err.Error()
				continue
			}
			result.Updated = append(result.Updated, existing.Slug)
		case store.IsNotFound(err):
			created, err := s.Create(ctx, req)
			if err != nil {
				result.Errors[key] = err.Error()
				continue
			}
			result.Created = append(result.Created, created.Slug)
		default:
			result.Errors[key] = err.Error()
		}
	}

	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	s.logger.Info("posts.imported",
		"created", len(result.Created),
		"updated", len(result.Updated),
		"skipped", len(result.Skipped),
		"failed", len(result.Errors),
	)
	s.emitBulk(ctx, domain.ActionImport, nil, map[string]any{
		"created": len(result.Created),
		"updated": len(result.Updated),
	})
	return result, nil
}

// requestFromDocuments merges the locale variants of one post. Shared
// attributes come from the first document that sets them.
func requestFromDocuments(key string, docs []markdown.Document, opts ImportOptions) CreatePostRequest {
	req := CreatePostRequest{Slug: key, ActorID: opts.ActorID}
	status := domain.StatusDraft
	if opts.Publish {
		status = domain.StatusPublished
	}

	for _, doc := range docs {
		locale := shared.ParseLocale(doc.Locale)
		meta := doc.Meta

		req.Title = req.Title.Set(locale, meta.Title)
		req.Excerpt = req.Excerpt.Set(locale, meta.Excerpt)
		req.Content = req.Content.Set(locale, doc.Body)

		if req.Author.Name == "" && meta.Author != "" {
			req.Author = Author{Name: meta.Author, Avatar: meta.Avatar}
		}
		if req.Category.Name == "" && meta.Category != "" {
			req.Category = Category{Name: meta.Category}
		}
		if len(req.Tags) == 0 {
			req.Tags = meta.Tags
		}
		if req.CoverImage == "" {
			req.CoverImage = meta.Cover
		}
		req.Featured = req.Featured || meta.Featured
		if req.PublishedAt == nil && !meta.Date.IsZero() {
			at := meta.Date.UTC()
			req.PublishedAt = &at
		}
		if meta.Draft {
			status = domain.StatusDraft
		} else if explicit, ok := domain.PublicationStatuses.Parse(meta.Status); ok && strings.TrimSpace(meta.Status) != "" {
			status = explicit
		}
	}
	if req.Author.Name == "" {
		req.Author = Author{Name: opts.DefaultAuthor}
	}
	req.Status = string(status)
	return req
}
