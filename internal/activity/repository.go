package activity

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists audit entries.
type Repository = store.Repository[*Entry]

// ListSpec declares how the log is listed. The generic "type" filter selects
// an action.
func ListSpec() listing.Spec[*Entry] {
	action := listing.Field[*Entry]{Column: "action", Value: func(e *Entry) string { return e.Action }}
	return listing.Spec[*Entry]{
		Search: []listing.Field[*Entry]{
			{Column: "actor_name", Value: func(e *Entry) string { return e.ActorName }},
			{Column: "description", Value: func(e *Entry) string { return e.Description }},
			{Column: "resource", Value: func(e *Entry) string { return e.Resource }},
		},
		Filters: map[string]listing.Field[*Entry]{
			"type":     action,
			"action":   action,
			"resource": {Column: "resource", Value: func(e *Entry) string { return e.Resource }},
			"actor":    {Column: "actor_id", Value: func(e *Entry) string { return e.ActorID.String() }},
		},
		DateColumn: "occurred_at",
		Date:       func(e *Entry) time.Time { return e.OccurredAt },
		Sorts: map[string]listing.SortField[*Entry]{
			"occurredAt": {Column: "occurred_at", Compare: listing.CompareTimes(func(e *Entry) time.Time { return e.OccurredAt })},
			"action":     {Column: "action", Compare: listing.CompareStrings(func(e *Entry) string { return e.Action })},
			"actorName":  {Column: "actor_name", Compare: listing.CompareStrings(func(e *Entry) string { return e.ActorName })},
		},
		DefaultSort: "occurredAt",
	}
}

func repositoryOptions() store.Options[*Entry] {
	return store.Options[*Entry]{
		Resource: "activity",
		Spec:     ListSpec(),
	}
}

func NewMemoryRepository() Repository {
	return store.NewMemoryRepository(repositoryOptions())
}

// NewBunRepository returns a bun-backed repository. The log is append-only
// and always read fresh, so it is never cached.
func NewBunRepository(db *bun.DB) Repository {
	return store.NewBunRepository(db, store.BunOptions[*Entry]{
		Options: repositoryOptions(),
		New:     func() *Entry { return &Entry{} },
	})
}
