package newsletter

import (
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists subscribers.
type Repository = store.Repository[*Subscriber]

func ListSpec() listing.Spec[*Subscriber] {
	return listing.Spec[*Subscriber]{
		Search: []listing.Field[*Subscriber]{
			{Column: "email", Value: func(s *Subscriber) string { return s.Email }},
			{Column: "source", Value: func(s *Subscriber) string { return s.Source }},
		},
		Filters: map[string]listing.Field[*Subscriber]{
			"status": {Column: "status", Value: func(s *Subscriber) string { return string(s.Status) }},
			"locale": {Column: "locale", Value: func(s *Subscriber) string { return s.Locale }},
		},
		DateColumn: "subscribed_at",
		Date:       func(s *Subscriber) time.Time { return s.SubscribedAt },
		Sorts: map[string]listing.SortField[*Subscriber]{
			"createdAt":    {Column: "created_at", Compare: listing.CompareTimes(func(s *Subscriber) time.Time { return s.CreatedAt })},
			"subscribedAt": {Column: "subscribed_at", Compare: listing.CompareTimes(func(s *Subscriber) time.Time { return s.SubscribedAt })},
			"email":        {Column: "email", Compare: listing.CompareStrings(func(s *Subscriber) string { return s.Email })},
		},
		DefaultSort: "createdAt",
	}
}

func repositoryOptions() store.Options[*Subscriber] {
	return store.Options[*Subscriber]{
		Resource: "subscriber",
		Spec:     ListSpec(),
		Lookups: map[string]func(*Subscriber) string{
			"email": func(s *Subscriber) string { return s.Email },
		},
		SetStatus: func(s *Subscriber, status string, now time.Time) {
			s.Status = domain.Status(status)
			s.UpdatedAt = now
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
	return store.NewBunRepository(db, store.BunOptions[*Subscriber]{
		Options:         repositoryOptions(),
		New:             func() *Subscriber { return &Subscriber{} },
		Identifier:      "email",
		IdentifierValue: func(s *Subscriber) string { return s.Email },
		Cache:           service,
		Serializer:      serializer,
	})
}
