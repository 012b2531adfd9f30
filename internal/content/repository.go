package content

import (
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists content entries.
type Repository = store.Repository[*Entry]

func ListSpec() listing.Spec[*Entry] {
	return listing.Spec[*Entry]{
		Search: []listing.Field[*Entry]{
			{Column: "key", Value: func(e *Entry) string { return e.Key }},
		},
		DateColumn: "updated_at",
		Date:       func(e *Entry) time.Time { return e.UpdatedAt },
		Sorts: map[string]listing.SortField[*Entry]{
			"key":       {Column: "key", Compare: listing.CompareStrings(func(e *Entry) string { return e.Key })},
			"updatedAt": {Column: "updated_at", Compare: listing.CompareTimes(func(e *Entry) time.Time { return e.UpdatedAt })},
		},
		DefaultSort: "updatedAt",
	}
}

func repositoryOptions() store.Options[*Entry] {
	return store.Options[*Entry]{
		Resource: "content",
		Spec:     ListSpec(),
		Lookups: map[string]func(*Entry) string{
			"key": func(e *Entry) string { return e.Key },
		},
	}
}

func NewMemoryRepository() Repository {
	return store.NewMemoryRepository(repositoryOptions())
}

func NewBunRepository(db *bun.DB) Repository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

func NewBunRepositoryWithCache(db *bun.DB, service cache.CacheService, serializer cache.KeySerializer) Repository {
	return store.NewBunRepository(db, store.BunOptions[*Entry]{
		Options:         repositoryOptions(),
		New:             func() *Entry { return &Entry{} },
		Identifier:      "key",
		IdentifierValue: func(e *Entry) string { return e.Key },
		Cache:           service,
		Serializer:      serializer,
	})
}
