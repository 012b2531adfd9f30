package portfolio

import (
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists portfolio items.
type Repository = store.Repository[*Item]

// ListSpec declares how items are listed. "type" is accepted as an alias of
// "kind" to match the generic list parameters.
func ListSpec() listing.Spec[*Item] {
	kind := listing.Field[*Item]{Column: "kind", Value: func(i *Item) string { return string(i.Kind) }}
	return listing.Spec[*Item]{
		Search: []listing.Field[*Item]{
			{Column: "title_en", Value: func(i *Item) string { return i.Title.En }},
			{Column: "title_ar", Value: func(i *Item) string { return i.Title.Ar }},
			{Column: "category", Value: func(i *Item) string { return i.Category }},
		},
		Filters: map[string]listing.Field[*Item]{
			"kind":     kind,
			"type":     kind,
			"status":   {Column: "status", Value: func(i *Item) string { return string(i.Status) }},
			"category": {Column: "category", Value: func(i *Item) string { return i.Category }},
		},
		DateColumn: "created_at",
		Date:       func(i *Item) time.Time { return i.CreatedAt },
		Sorts: map[string]listing.SortField[*Item]{
			"order":     {Column: "sort_order", Compare: listing.CompareOrdered(func(i *Item) int { return i.Order })},
			"createdAt": {Column: "created_at", Compare: listing.CompareTimes(func(i *Item) time.Time { return i.CreatedAt })},
			"title":     {Column: "title_en", Compare: listing.CompareStrings(func(i *Item) string { return i.Title.En })},
		},
		DefaultSort: "createdAt",
	}
}

func repositoryOptions() store.Options[*Item] {
	return store.Options[*Item]{
		Resource: "portfolio_item",
		Spec:     ListSpec(),
		Lookups: map[string]func(*Item) string{
			"slug": func(i *Item) string { return i.Slug },
		},
		SetStatus: func(i *Item, status string, now time.Time) {
			i.Status = domain.Status(status)
			i.UpdatedAt = now
		},
	}
}

// NewMemoryRepository returns an in-memory repository.
func NewMemoryRepository() Repository {
	return store.NewMemoryRepository(repositoryOptions())
}

// NewBunRepository returns a bun-backed repository.
func NewBunRepository(db *bun.DB) Repository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache returns a bun-backed repository with cached point
// reads.
func NewBunRepositoryWithCache(db *bun.DB, service cache.CacheService, serializer cache.KeySerializer) Repository {
	return store.NewBunRepository(db, store.BunOptions[*Item]{
		Options:    repositoryOptions(),
		New:        func() *Item { return &Item{} },
		Cache:      service,
		Serializer: serializer,
	})
}
