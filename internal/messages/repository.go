package messages

import (
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists messages.
type Repository = store.Repository[*Message]

// ListSpec declares how the inbox is searched, filtered, and sorted.
func ListSpec() listing.Spec[*Message] {
	return listing.Spec[*Message]{
		Search: []listing.Field[*Message]{
			{Column: "name", Value: func(m *Message) string { return m.Name }},
			{Column: "email", Value: func(m *Message) string { return m.Email }},
			{Column: "subject", Value: func(m *Message) string { return m.Subject }},
		},
		Filters: map[string]listing.Field[*Message]{
			"status": {Column: "status", Value: func(m *Message) string { return string(m.Status) }},
		},
		DateColumn: "created_at",
		Date:       func(m *Message) time.Time { return m.CreatedAt },
		Sorts: map[string]listing.SortField[*Message]{
			"createdAt": {Column: "created_at", Compare: listing.CompareTimes(func(m *Message) time.Time { return m.CreatedAt })},
			"name":      {Column: "name", Compare: listing.CompareStrings(func(m *Message) string { return m.Name })},
			"subject":   {Column: "subject", Compare: listing.CompareStrings(func(m *Message) string { return m.Subject })},
		},
		DefaultSort: "createdAt",
	}
}

func repositoryOptions() store.Options[*Message] {
	return store.Options[*Message]{
		Resource: "message",
		Spec:     ListSpec(),
		SetStatus: func(m *Message, status string, now time.Time) {
			m.Status = domain.Status(status)
			m.UpdatedAt = now
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
	return store.NewBunRepository(db, store.BunOptions[*Message]{
		Options:    repositoryOptions(),
		New:        func() *Message { return &Message{} },
		Cache:      service,
		Serializer: serializer,
	})
}
