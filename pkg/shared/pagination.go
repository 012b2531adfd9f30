package shared

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination describes a page window over a total count.
type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// ClampPage enforces a minimum page of 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampLimit keeps limit within [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// CalculatePagination clamps page and limit, then derives the page count and
// navigation flags.
func CalculatePagination(total, page, limit int) Pagination {
	page = ClampPage(page)
	limit = ClampLimit(limit)
	if total < 0 {
		total = 0
	}
	totalPages := (total + limit - 1) / limit
	return Pagination{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// CalculateSkip converts page/limit into a row offset using the same clamping
// as CalculatePagination.
func CalculateSkip(page, limit int) int {
	return (ClampPage(page) - 1) * ClampLimit(limit)
}

// Meta returns the wire form used by list endpoints.
func (p Pagination) Meta() PageMeta {
	return PageMeta{Page: p.Page, Limit: p.Limit, Total: p.Total, Pages: p.TotalPages}
}

// Descriptor expands wire metadata back into a full Pagination.
func (m PageMeta) Descriptor() Pagination {
	return CalculatePagination(m.Total, m.Page, m.Limit)
}
