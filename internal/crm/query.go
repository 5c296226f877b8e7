package crm

import (
	"strings"

	"fortivo-crm/internal/store"
)

// clientColumns is the canonical column order for every SELECT and for the
// CSV export header.
const clientColumns = "id, name, email, phone, status, follow_up_date, notes"

// searchColumns are the columns matched by the free-text search term.
var searchColumns = []string{"name", "email"}

// sortColumns is the allow-list for user-supplied sort keys. Anything else
// silently falls back to sorting by name; the sort column is never taken
// from user input directly.
var sortColumns = map[string]bool{
	"name":           true,
	"email":          true,
	"phone":          true,
	"status":         true,
	"follow_up_date": true,
}

// ListQuery captures the optional search, filter and sort inputs of the
// client list surfaces.
type ListQuery struct {
	Search string // substring match against name OR email, case-insensitive
	Status string // exact match
	SortBy string // validated against sortColumns, falls back to "name"
	Order  string // "desc" (case-insensitive) or anything else for ascending
}

// SortColumn returns the validated ORDER BY column.
func (q ListQuery) SortColumn() string {
	if sortColumns[q.SortBy] {
		return q.SortBy
	}
	return "name"
}

// SortDirection returns "DESC" only for a case-insensitive "desc" input.
func (q ListQuery) SortDirection() string {
	if strings.EqualFold(q.Order, "desc") {
		return "DESC"
	}
	return "ASC"
}

// SelectSQL builds the parameterized SELECT for the list surfaces. All
// predicate values are bound through the dialect's ParamBuilder.
func (q ListQuery) SelectSQL(d store.Dialect) (string, []any) {
	pb := d.NewParamBuilder()

	var where []string
	if term := strings.TrimSpace(q.Search); term != "" {
		where = append(where, d.ContainsExpr(pb, searchColumns, term))
	}
	if q.Status != "" {
		where = append(where, "status = "+pb.Add(q.Status))
	}

	sql := "SELECT " + clientColumns + " FROM clients"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY " + q.SortColumn() + " " + q.SortDirection()

	return sql, pb.Params()
}
