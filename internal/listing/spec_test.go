package listing

import (
	"testing"
	"time"

	"github.com/goliatone/go-sitecms/pkg/shared"
)

type row struct {
	Name      string
	Email     string
	Status    string
	CreatedAt time.Time
}

var rowSpec = Spec[row]{
	Search: []Field[row]{
		{Column: "name", Value: func(r row) string { return r.Name }},
		{Column: "email", Value: func(r row) string { return r.Email }},
	},
	Filters: map[string]Field[row]{
		"status": {Column: "status", Value: func(r row) string { return r.Status }},
	},
	DateColumn: "created_at",
	Date:       func(r row) time.Time { return r.CreatedAt },
	Sorts: map[string]SortField[row]{
		"name":      {Column: "name", Compare: CompareStrings(func(r row) string { return r.Name })},
		"createdAt": {Column: "created_at", Compare: CompareTimes(func(r row) time.Time { return r.CreatedAt })},
	},
	DefaultSort: "createdAt",
}

func fixtureRows() []row {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []row{
		{"Sara Ali", "sara@example.com", "unread", base},
		{"Omar", "omar@example.com", "read", base.Add(24 * time.Hour)},
		{"Lina", "lina@SARA.dev", "unread", base.Add(48 * time.Hour)},
		{"Adam", "adam@example.com", "archived", base.Add(72 * time.Hour)},
		{"Zed", "zed@example.com", "unread", base.Add(96 * time.Hour)},
	}
}

func TestApplySearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	q := NewQuery()
	q.Search = "SARA"
	result := Apply(fixtureRows(), rowSpec, q)
	if result.Pagination.Total != 2 {
		t.Fatalf("expected 2 matches, got %d", result.Pagination.Total)
	}
}

func TestApplyFiltersComposeWithAnd(t *testing.T) {
	q := NewQuery().WithFilter("status", "unread")
	q.Search = "sara"
	result := Apply(fixtureRows(), rowSpec, q)
	if result.Pagination.Total != 2 {
		t.Fatalf("expected 2 unread sara rows, got %d", result.Pagination.Total)
	}

	q = q.WithFilter("status", "archived")
	if got := Apply(fixtureRows(), rowSpec, q).Pagination.Total; got != 0 {
		t.Fatalf("expected no archived sara rows, got %d", got)
	}

	if got := Apply(fixtureRows(), rowSpec, NewQuery().WithFilter("status", "all")).Pagination.Total; got != 5 {
		t.Fatalf("sentinel all must not filter, got %d", got)
	}
}

func TestApplyDateRangeIsInclusive(t *testing.T) {
	rows := fixtureRows()
	q := NewQuery()
	from := rows[1].CreatedAt
	to := rows[3].CreatedAt
	q.From, q.To = &from, &to
	if got := Apply(rows, rowSpec, q).Pagination.Total; got != 3 {
		t.Fatalf("expected 3 rows in range, got %d", got)
	}
}

func TestApplySortsAndPages(t *testing.T) {
	q := NewQuery()
	q.Limit = 2
	q.Page = 2
	q.Sort = shared.ParseSortString("name:asc")

	result := Apply(fixtureRows(), rowSpec, q)
	if len(result.Items) != 2 || result.Items[0].Name != "Omar" || result.Items[1].Name != "Sara Ali" {
		t.Fatalf("unexpected page %+v", result.Items)
	}
	if !result.Pagination.HasNextPage || !result.Pagination.HasPrevPage || result.Pagination.TotalPages != 3 {
		t.Fatalf("unexpected pagination %+v", result.Pagination)
	}
}

func TestApplyUnknownSortFallsBackToDefault(t *testing.T) {
	q := NewQuery()
	q.Sort = shared.ParseSortString("password:asc")
	result := Apply(fixtureRows(), rowSpec, q)
	if result.Items[0].Name != "Zed" {
		t.Fatalf("expected newest first, got %s", result.Items[0].Name)
	}
}

func TestApplyPageBeyondRangeIsEmpty(t *testing.T) {
	q := NewQuery()
	q.Page = 9
	result := Apply(fixtureRows(), rowSpec, q)
	if len(result.Items) != 0 || result.Pagination.Total != 5 {
		t.Fatalf("expected empty page with total 5, got %+v", result)
	}
}
