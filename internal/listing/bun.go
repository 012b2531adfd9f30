package listing

import (
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitecms/pkg/shared"
)

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// ApplyBun adds the search, filter, date, and ORDER BY clauses of q to sel.
// Pagination is left to the caller.
func ApplyBun[T any](sel *bun.SelectQuery, spec Spec[T], q Query) *bun.SelectQuery {
	q = q.Normalized()

	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" && len(spec.Search) > 0 {
		pattern := "%" + likeEscaper.Replace(term) + "%"
		sel = sel.WhereGroup(" AND ", func(group *bun.SelectQuery) *bun.SelectQuery {
			for _, field := range spec.Search {
				if field.Column == "" {
					continue
				}
				group = group.WhereOr(`LOWER(?) LIKE ? ESCAPE '!'`, bun.Ident(field.Column), pattern)
			}
			return group
		})
	}

	for _, name := range sortedKeys(q.Filters) {
		field, ok := spec.Filters[name]
		if !ok {
			continue
		}
		value := q.Filters[name]
		switch {
		case field.Where != nil:
			sel = field.Where(sel, value)
		case field.Column != "":
			sel = sel.Where("? = ?", bun.Ident(field.Column), value)
		}
	}

	if spec.DateColumn != "" {
		if q.From != nil {
			sel = sel.Where("? >= ?", bun.Ident(spec.DateColumn), *q.From)
		}
		if q.To != nil {
			sel = sel.Where("? <= ?", bun.Ident(spec.DateColumn), *q.To)
		}
	}

	if field, direction, ok := spec.sortField(q.Sort); ok && field.Column != "" {
		if direction == shared.SortAsc {
			sel = sel.OrderExpr("? ASC", bun.Ident(field.Column))
		} else {
			sel = sel.OrderExpr("? DESC", bun.Ident(field.Column))
		}
	}
	return sel
}
