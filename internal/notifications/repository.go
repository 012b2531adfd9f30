package notifications

import (
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists notifications.
type Repository = store.Repository[*Notification]

// ListSpec declares how notifications are searched, filtered, and sorted.
// The status filter maps onto the read flag.
func ListSpec() listing.Spec[*Notification] {
	return listing.Spec[*Notification]{
		Search: []listing.Field[*Notification]{
			{Column: "title_en", Value: func(n *Notification) string { return n.Title.En }},
			{Column: "title_ar", Value: func(n *Notification) string { return n.Title.Ar }},
			{Column: "body_en", Value: func(n *Notification) string { return n.Body.En }},
			{Column: "body_ar", Value: func(n *Notification) string { return n.Body.Ar }},
		},
		Filters: map[string]listing.Field[*Notification]{
			"status": {
				Value: (*Notification).State,
				Where: func(q *bun.SelectQuery, value string) *bun.SelectQuery {
					switch value {
					case StateRead, StateUnread:
						return q.Where("is_read = ?", value == StateRead)
					default:
						return q.Where("1 = 0")
					}
				},
			},
			"type": {Column: "type", Value: func(n *Notification) string { return string(n.Type) }},
		},
		DateColumn: "created_at",
		Date:       func(n *Notification) time.Time { return n.CreatedAt },
		Sorts: map[string]listing.SortField[*Notification]{
			"createdAt": {Column: "created_at", Compare: listing.CompareTimes(func(n *Notification) time.Time { return n.CreatedAt })},
			"type":      {Column: "type", Compare: listing.CompareStrings(func(n *Notification) string { return string(n.Type) })},
		},
		DefaultSort: "createdAt",
	}
}

func repositoryOptions() store.Options[*Notification] {
	return store.Options[*Notification]{
		Resource: "notification",
		Spec:     ListSpec(),
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

func NewBunRepositoryWithCache(db *bun.DB, service cache.CacheService, serializer cache.KeySerializer) Repository {
	return store.NewBunRepository(db, store.BunOptions[*Notification]{
		Options:    repositoryOptions(),
		New:        func() *Notification { return &Notification{} },
		Cache:      service,
		Serializer: serializer,
	})
}
