package users

import (
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists users.
type Repository = store.Repository[*User]

// ListSpec declares how users are listed. The generic "type" filter selects
// a role.
func ListSpec() listing.Spec[*User] {
	role := listing.Field[*User]{Column: "role", Value: func(u *User) string { return string(u.Role) }}
	return listing.Spec[*User]{
		Search: []listing.Field[*User]{
			{Column: "name", Value: func(u *User) string { return u.Name }},
			{Column: "email", Value: func(u *User) string { return u.Email }},
		},
		Filters: map[string]listing.Field[*User]{
			"type":   role,
			"role":   role,
			"status": {Column: "status", Value: func(u *User) string { return string(u.Status) }},
		},
		DateColumn: "created_at",
		Date:       func(u *User) time.Time { return u.CreatedAt },
		Sorts: map[string]listing.SortField[*User]{
			"createdAt": {Column: "created_at", Compare: listing.CompareTimes(func(u *User) time.Time { return u.CreatedAt })},
			"name":      {Column: "name", Compare: listing.CompareStrings(func(u *User) string { return u.Name })},
			"email":     {Column: "email", Compare: listing.CompareStrings(func(u *User) string { return u.Email })},
			"lastLoginAt": {Column: "last_login_at", Compare: listing.CompareTimes(func(u *User) time.Time {
				if u.LastLoginAt == nil {
					return time.Time{}
				}
				return *u.LastLoginAt
			})},
		},
		DefaultSort: "createdAt",
	}
}

func repositoryOptions() store.Options[*User] {
	return store.Options[*User]{
		Resource: "user",
		Spec:     ListSpec(),
		Lookups: map[string]func(*User) string{
			"email": func(u *User) string { return u.Email },
		},
		SetStatus: func(u *User, status string, now time.Time) {
			u.Status = domain.Status(status)
			u.UpdatedAt = now
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
	return store.NewBunRepository(db, store.BunOptions[*User]{
		Options:         repositoryOptions(),
		New:             func() *User { return &User{} },
		Identifier:      "email",
		IdentifierValue: func(u *User) string { return u.Email },
		Cache:           service,
		Serializer:      serializer,
	})
}
