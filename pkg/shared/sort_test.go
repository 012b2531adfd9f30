package shared

import "testing"

func TestParseSortString(t *testing.T) {
	cases := []struct {
		input string
		field string
		dir   int
	}{
		{"name:asc", "name", SortAsc},
		{"createdAt:desc", "createdAt", SortDesc},
		{"", "createdAt", SortDesc},
		{"name", "name", SortDesc},
		{":asc", "createdAt", SortDesc},
		{"title:ASC", "title", SortAsc},
		{"title:sideways", "title", SortDesc},
	}
	for _, tc := range cases {
		got := ParseSortString(tc.input)
		if len(got) != 1 || got[tc.field] != tc.dir {
			t.Fatalf("ParseSortString(%q) = %v, want {%s: %d}", tc.input, got, tc.field, tc.dir)
		}
	}
}

func TestSortDirectiveString(t *testing.T) {
	if got := ParseSortString("name:asc").String(); got != "name:asc" {
		t.Fatalf("unexpected string %q", got)
	}
	if got := (SortDirective{}).String(); got != "createdAt:desc" {
		t.Fatalf("expected default directive, got %q", got)
	}
}
