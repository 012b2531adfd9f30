package listing

import (
	"cmp"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/pkg/shared"
)

// Field describes one searchable or filterable attribute of T. Column is the
// SQL column; Value reads the same attribute from a record. Where, when set,
// replaces the default equality predicate for filters.
type Field[T any] struct {
	Column string
	Value  func(T) string
	Where  func(q *bun.SelectQuery, value string) *bun.SelectQuery
}

// SortField maps a public sort key to a column and an in-memory comparator.
type SortField[T any] struct {
	Column  string
	Compare func(a, b T) int
}

// Spec declares how a resource is listed.
type Spec[T any] struct {
	Search      []Field[T]
	Filters     map[string]Field[T]
	DateColumn  string
	Date        func(T) time.Time
	Sorts       map[string]SortField[T]
	DefaultSort string
}

// FilterNames returns the filter parameters the spec understands.
func (s Spec[T]) FilterNames() []string {
	return sortedKeys(s.Filters)
}

// sortField resolves the directive against the whitelist, falling back to
// the default sort key, then to the first declared one.
func (s Spec[T]) sortField(directive shared.SortDirective) (SortField[T], int, bool) {
	name, direction := directive.Field()
	if field, ok := s.Sorts[name]; ok {
		return field, direction, true
	}
	if field, ok := s.Sorts[s.DefaultSort]; ok {
		return field, shared.SortDesc, true
	}
	if keys := sortedKeys(s.Sorts); len(keys) > 0 {
		return s.Sorts[keys[0]], shared.SortDesc, true
	}
	return SortField[T]{}, 0, false
}

// Result is one page of a list.
type Result[T any] struct {
	Items      []T
	Pagination shared.Pagination
}

// Matches reports whether item satisfies the search, filters, and date range
// of q. All predicates are AND-composed.
func Matches[T any](item T, spec Spec[T], q Query) bool {
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		found := false
		for _, field := range spec.Search {
			if field.Value != nil && strings.Contains(strings.ToLower(field.Value(item)), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for name, value := range q.Filters {
		field, ok := spec.Filters[name]
		if !ok || field.Value == nil {
			continue
		}
		if field.Value(item) != value {
			return false
		}
	}
	if spec.Date != nil && (q.From != nil || q.To != nil) {
		at := spec.Date(item)
		if q.From != nil && at.Before(*q.From) {
			return false
		}
		if q.To != nil && at.After(*q.To) {
			return false
		}
	}
	return true
}

// Filter returns the items matching q, in input order.
func Filter[T any](items []T, spec Spec[T], q Query) []T {
	matched := make([]T, 0, len(items))
	for _, item := range items {
		if Matches(item, spec, q) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Sort orders items in place by directive. Ties keep their input order.
func Sort[T any](items []T, spec Spec[T], directive shared.SortDirective) {
	field, direction, ok := spec.sortField(directive)
	if !ok || field.Compare == nil {
		return
	}
	slices.SortStableFunc(items, func(a, b T) int {
		if direction == shared.SortAsc {
			return field.Compare(a, b)
		}
		return field.Compare(b, a)
	})
}

// Apply filters, sorts, and pages items in memory.
func Apply[T any](items []T, spec Spec[T], q Query) Result[T] {
	q = q.Normalized()
	matched := Filter(items, spec, q)
	Sort(matched, spec, q.Sort)

	pagination := shared.CalculatePagination(len(matched), q.Page, q.Limit)
	start := min(q.Offset(), len(matched))
	end := min(start+pagination.Limit, len(matched))
	return Result[T]{
		Items:      slices.Clip(matched[start:end]),
		Pagination: pagination,
	}
}

// CompareStrings builds a case-insensitive comparator over a string attribute.
func CompareStrings[T any](value func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return strings.Compare(strings.ToLower(value(a)), strings.ToLower(value(b)))
	}
}

// CompareTimes builds a comparator over a time attribute.
func CompareTimes[T any](value func(T) time.Time) func(a, b T) int {
	return func(a, b T) int {
		return value(a).Compare(value(b))
	}
}

// CompareOrdered builds a comparator over an ordered attribute.
func CompareOrdered[T any, V cmp.Ordered](value func(T) V) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(value(a), value(b))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
