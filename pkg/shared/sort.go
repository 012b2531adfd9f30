package shared

import "strings"

const (
	SortAsc  = 1
	SortDesc = -1
)

// DefaultSortField is used when a sort string is absent or malformed.
const DefaultSortField = "createdAt"

// SortDirective maps a single field to SortAsc or SortDesc.
type SortDirective map[string]int

// DefaultSort returns the fallback directive (newest first).
func DefaultSort() SortDirective {
	return SortDirective{DefaultSortField: SortDesc}
}

// ParseSortString parses "field", "field:asc", or "field:desc". A bare field
// sorts descending; anything without a field segment yields DefaultSort.
func ParseSortString(raw string) SortDirective {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort()
	}
	field, direction, _ := strings.Cut(raw, ":")
	field = strings.TrimSpace(field)
	if field == "" {
		return DefaultSort()
	}
	if strings.EqualFold(strings.TrimSpace(direction), "asc") {
		return SortDirective{field: SortAsc}
	}
	return SortDirective{field: SortDesc}
}

// Field returns the directive's field and direction. Empty directives report
// the default.
func (d SortDirective) Field() (string, int) {
	for field, direction := range d {
		if direction != SortAsc {
			direction = SortDesc
		}
		return field, direction
	}
	return DefaultSortField, SortDesc
}

// String renders the directive back into "field:dir" form.
func (d SortDirective) String() string {
	field, direction := d.Field()
	if direction == SortAsc {
		return field + ":asc"
	}
	return field + ":desc"
}
