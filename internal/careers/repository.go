package careers

import (
	"time"

	cache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/internal/domain"
	"github.com/goliatone/go-sitecms/internal/listing"
	"github.com/goliatone/go-sitecms/internal/store"
)

// Repository persists jobs.
type Repository = store.Repository[*Job]

// ListSpec declares how jobs are searched, filtered, and sorted.
func ListSpec() listing.Spec[*Job] {
	return listing.Spec[*Job]{
		Search: []listing.Field[*Job]{
			{Column: "title_en", Value: func(j *Job) string { return j.Title.En }},
			{Column: "title_ar", Value: func(j *Job) string { return j.Title.Ar }},
			{Column: "department", Value: func(j *Job) string { return j.Department }},
			{Column: "location", Value: func(j *Job) string { return j.Location }},
		},
		Filters: map[string]listing.Field[*Job]{
			"status":     {Column: "status", Value: func(j *Job) string { return string(j.Status) }},
			"type":       {Column: "employment_type", Value: func(j *Job) string { return string(j.EmploymentType) }},
			"department": {Column: "department", Value: func(j *Job) string { return j.Department }},
		},
		DateColumn: "created_at",
		Date:       func(j *Job) time.Time { return j.CreatedAt },
		Sorts: map[string]listing.SortField[*Job]{
			"createdAt": {Column: "created_at", Compare: listing.CompareTimes(func(j *Job) time.Time { return j.CreatedAt })},
			"deadline":  {Column: "deadline", Compare: listing.CompareTimes(deadline)},
			"title":     {Column: "title_en", Compare: listing.CompareStrings(func(j *Job) string { return j.Title.En })},
		},
		DefaultSort: "createdAt",
	}
}

func deadline(j *Job) time.Time {
	if j.Deadline == nil {
		return time.Time{}
	}
	return *j.Deadline
}

func repositoryOptions() store.Options[*Job] {
	return store.Options[*Job]{
		Resource: "job",
		Spec:     ListSpec(),
		Lookups: map[string]func(*Job) string{
			"slug": func(j *Job) string { return j.Slug },
		},
		SetStatus: func(j *Job, status string, now time.Time) {
			j.Status = domain.Status(status)
			j.UpdatedAt = now
		},
	}
}

// NewMemoryRepository returns an in-memory job repository.
func NewMemoryRepository() Repository {
	return store.NewMemoryRepository(repositoryOptions())
}

// NewBunRepository returns a bun-backed job repository.
func NewBunRepository(db *bun.DB) Repository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache returns a bun-backed job repository with cached
// point reads.
func NewBunRepositoryWithCache(db *bun.DB, service cache.CacheService, serializer cache.KeySerializer) Repository {
	return store.NewBunRepository(db, store.BunOptions[*Job]{
		Options:         repositoryOptions(),
		New:             func() *Job { return &Job{} },
		Identifier:      "slug",
		IdentifierValue: func(j *Job) string { return j.Slug },
		Cache:           service,
		Serializer:      serializer,
	})
}
