package repository

import (
	"fmt"

	"biblioteca-api/internal/domains/author/model"
	"biblioteca-api/internal/shared/utils"
)

const authorColumns = "a.id, a.first_name, a.last_name, a.identification, a.photo"

// buildFilterQuery composes the filter SELECT. Every present filter adds
// one AND-ed predicate; values are always bound, never interpolated.
func buildFilterQuery(f model.AuthorFilter, sort model.SortSpec) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.FirstNames != "" {
		where = append(where, fmt.Sprintf("a.first_name LIKE '%%' || %s || '%%'", arg(f.FirstNames)))
	}
	if f.LastNames != "" {
		where = append(where, fmt.Sprintf("a.last_name LIKE '%%' || %s || '%%'", arg(f.LastNames)))
	}
	if f.Identification != "" {
		where = append(where, fmt.Sprintf("a.identification IS NOT NULL AND a.identification LIKE '%%' || %s || '%%'", arg(f.Identification)))
	}
	if f.HasPhoto != nil {
		if *f.HasPhoto {
			where = append(where, "a.photo IS NOT NULL")
		} else {
			where = append(where, "a.photo IS NULL")
		}
	}
	if f.HasBooks != nil {
		exists := "EXISTS (SELECT 1 FROM author_books ab WHERE ab.author_id = a.id)"
		if !*f.HasBooks {
			exists = "NOT " + exists
		}
		where = append(where, exists)
	}
	if f.BookTitle != "" {
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM author_books ab
			JOIN books b ON b.id = ab.book_id
			WHERE ab.author_id = a.id AND b.title LIKE '%%' || %s || '%%'
		)`, arg(f.BookTitle)))
	}

	query := "SELECT " + authorColumns + " FROM authors a"
	if len(where) > 0 {
		query += " WHERE " + utils.JoinWithAnd(where)
	}

	page := f.Pagination()
	query += " ORDER BY " + sort.OrderBy("a")
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", arg(page.Limit()), arg(page.Offset()))

	return query, args
}
