package posts

import (
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists posts.
type Repository = store.Repository[*Post]

// ListSpec declares the searchable, filterable, and sortable post fields.
func ListSpec() listing.Spec[*Post] {
	return listing.Spec[*Post]{
		Search: []listing.Field[*Post]{
			{Column: "title_en", Value: func(p *Post) string { return p.Title.En }},
			{Column: "title_ar", Value: func(p *Post) string { return p.Title.Ar }},
			{Column: "excerpt_en", Value: func(p *Post) string { return p.Excerpt.En }},
			{Column: "excerpt_ar", Value: func(p *Post) string { return p.Excerpt.Ar }},
			{Column: "author_name", Value: func(p *Post) string { return p.Author.Name }},
		},
		Filters: map[string]listing.Field[*Post]{
			"status":   {Column: "status", Value: func(p *Post) string { return string(p.Status) }},
			"category": {Column: "category_slug", Value: func(p *Post) string { return p.Category.Slug }},
		},
		DateColumn: "created_at",
		Date:       func(p *Post) time.Time { return p.CreatedAt },
		Sorts: map[string]listing.SortField[*Post]{
			"createdAt":   {Column: "created_at", Compare: listing.CompareTimes(func(p *Post) time.Time { return p.CreatedAt })},
			"updatedAt":   {Column: "updated_at", Compare: listing.CompareTimes(func(p *Post) time.Time { return p.UpdatedAt })},
			"publishedAt": {Column: "published_at", Compare: listing.CompareTimes(publishedAt)},
			"title":       {Column: "title_en", Compare: listing.CompareStrings(func(p *Post) string { return p.Title.En })},
			"views":       {Column: "views", Compare: listing.CompareOrdered(func(p *Post) int { return p.Views })},
		},
		DefaultSort: "createdAt",
	}
}

func publishedAt(p *Post) time.Time {
	if p.PublishedAt == nil {
		return time.Time{}
	}
	return *p.PublishedAt
}

func repositoryOptions() store.Options[*Post] {
	return store.Options[*Post]{
		Resource: "post",
		Spec:     ListSpec(),
		Lookups: map[string]func(*Post) string{
			"slug": func(p *Post) string { return p.Slug },
		},
		SetStatus: func(p *Post, status string, now time.Time) {
			p.Status = domain.Status(status)
			p.UpdatedAt = now
		},
		Counters: map[string]func(*Post) *int{
			"views": func(p *Post) *int { return &p.Views },
		},
	}
}

// NewMemoryRepository returns an in-memory post repository.
func NewMemoryRepository() Repository {
	return store.NewMemoryRepository(repositoryOptions())
}

// NewBunRepository returns a bun-backed post repository.
func NewBunRepository(db *bun.DB) Repository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache returns a bun-backed post repository whose point
// reads go through the cache.
func NewBunRepositoryWithCache(db *bun.DB, service cache.CacheService, serializer cache.KeySerializer) Repository {
	return store.NewBunRepository(db, store.BunOptions[*Post]{
		Options:         repositoryOptions(),
		New:             func() *Post { return &Post{} },
		Identifier:      "slug",
		IdentifierValue: func(p *Post) string { return p.Slug },
		Cache:           service,
		Serializer:      serializer,
	})
}
