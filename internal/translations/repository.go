package translations

import (
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists translation items.
type Repository = store.Repository[*Item]

// ListSpec declares how translations are listed. "type" selects a namespace
// and "status" separates complete from missing items.
func ListSpec() listing.Spec[*Item] {
	namespace := listing.Field[*Item]{Column: "namespace", Value: func(i *Item) string { return i.Namespace }}
	return listing.Spec[*Item]{
		Search: []listing.Field[*Item]{
			{Column: "key", Value: func(i *Item) string { return i.Key }},
			{Column: "value_en", Value: func(i *Item) string { return i.Value.En }},
			{Column: "value_ar", Value: func(i *Item) string { return i.Value.Ar }},
		},
		Filters: map[string]listing.Field[*Item]{
			"type":      namespace,
			"namespace": namespace,
			"status": {
				Value: (*Item).State,
				Where: func(q *bun.SelectQuery, value string) *bun.SelectQuery {
					switch value {
					case StateComplete:
						return q.Where("COALESCE(value_ar, '') <> ''").Where("COALESCE(value_en, '') <> ''")
					case StateMissing:
						return q.WhereGroup(" AND ", func(group *bun.SelectQuery) *bun.SelectQuery {
							return group.Where("COALESCE(value_ar, '') = ''").WhereOr("COALESCE(value_en, '') = ''")
						})
					default:
						return q.Where("1 = 0")
					}
				},
			},
		},
		DateColumn: "updated_at",
		Date:       func(i *Item) time.Time { return i.UpdatedAt },
		Sorts: map[string]listing.SortField[*Item]{
			"key": {Column: "key", Compare: listing.CompareStrings(func(i *Item) string { return i.Key })},
			"namespace": {Column: "namespace", Compare: listing.CompareStrings(func(i *Item) string {
				return i.Namespace
			})},
			"updatedAt": {Column: "updated_at", Compare: listing.CompareTimes(func(i *Item) time.Time { return i.UpdatedAt })},
		},
		DefaultSort: "updatedAt",
	}
}

func repositoryOptions() store.Options[*Item] {
	return store.Options[*Item]{
		Resource: "translation",
		Spec:     ListSpec(),
	}
}

func NewMemoryRepository() Repository {
	return store.NewMemoryRepository(repositoryOptions())
}

func NewBunRepository(db *bun.DB) Repository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

func NewBunRepositoryWithCache(db *bun.DB, service cache.CacheService, serializer cache.KeySerializer) Repository {
	return store.NewBunRepository(db, store.BunOptions[*Item]{
		Options:    repositoryOptions(),
		New:        func() *Item { return &Item{} },
		Cache:      service,
		Serializer: serializer,
	})
}
