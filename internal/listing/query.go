// Package listing implements the search, filter, sort, and paginate contract
// shared by every list endpoint, both over in-memory slices and bun queries.
package listing

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-sitecms/pkg/shared"
)

// ErrInvalidDate is returned when from/to cannot be parsed.
var ErrInvalidDate = errors.New("listing: invalid date")

const dateLayout = "2006-01-02"

// Query is a sanitised list request.
type Query struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
	From    *time.Time
	To      *time.Time
	Sort    shared.SortDirective
}

// NewQuery returns the first page with default limit and sort.
func NewQuery() Query {
	return Query{
		Page:  shared.DefaultPage,
		Limit: shared.DefaultLimit,
		Sort:  shared.DefaultSort(),
	}
}

// ParseQuery reads page, limit, search, sort, from, to, and the named filter
// parameters. Empty filters and the "all" sentinel are dropped.
func ParseQuery(values url.Values, filters ...string) (Query, error) {
	q := NewQuery()
	q.Page = shared.ClampPage(intParam(values, "page", shared.DefaultPage))
	q.Limit = shared.ClampLimit(intParam(values, "limit", shared.DefaultLimit))
	q.Search = strings.TrimSpace(values.Get("search"))
	q.Sort = shared.ParseSortString(values.Get("sort"))

	for _, name := range filters {
		q = q.WithFilter(name, values.Get(name))
	}

	var err error
	if q.From, err = parseDate(values.Get("from"), false); err != nil {
		return Query{}, fmt.Errorf("%w: from: %v", ErrInvalidDate, err)
	}
	if q.To, err = parseDate(values.Get("to"), true); err != nil {
		return Query{}, fmt.Errorf("%w: to: %v", ErrInvalidDate, err)
	}
	return q, nil
}

// WithFilter returns a copy of q with the filter set, or removed when value
// is blank or "all".
func (q Query) WithFilter(name, value string) Query {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" {
		return q
	}
	filters := maps.Clone(q.Filters)
	if value == "" || strings.EqualFold(value, shared.FilterAll) {
		delete(filters, name)
	} else {
		if filters == nil {
			filters = map[string]string{}
		}
		filters[name] = value
	}
	q.Filters = filters
	return q
}

// Filter returns the active value for name.
func (q Query) Filter(name string) (string, bool) {
	value, ok := q.Filters[name]
	return value, ok
}

// Offset is the row offset of the requested page.
func (q Query) Offset() int {
	return shared.CalculateSkip(q.Page, q.Limit)
}

// Normalized clamps page and limit and fills in the default sort.
func (q Query) Normalized() Query {
	if q.Limit == 0 {
		q.Limit = shared.DefaultLimit
	}
	q.Page = shared.ClampPage(q.Page)
	q.Limit = shared.ClampLimit(q.Limit)
	if len(q.Sort) == 0 {
		q.Sort = shared.DefaultSort()
	}
	return q
}

// Record renders the query as request parameters, omitting blank values.
func (q Query) Record() shared.Record {
	record := shared.R(
		"page", q.Page,
		"limit", q.Limit,
		"search", q.Search,
	)
	for _, name := range sortedKeys(q.Filters) {
		record = record.Set(name, q.Filters[name])
	}
	if q.From != nil {
		record = record.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if q.To != nil {
		record = record.Set("to", q.To.UTC().Format(time.RFC3339))
	}
	if len(q.Sort) > 0 {
		record = record.Set("sort", q.Sort.String())
	}
	return shared.SanitizeObject(record)
}

func intParam(values url.Values, key string, fallback int) int {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// parseDate accepts RFC3339 timestamps or bare dates. A bare "to" date covers
// the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		ts = ts.UTC()
		return &ts, nil
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}
