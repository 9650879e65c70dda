package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"biblioteca-api/internal/domains/author/model"
)

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func TestBuildFilterQuery_NoFilters(t *testing.T) {
	query, args := buildFilterQuery(model.AuthorFilter{}, model.DefaultSort)

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY a.first_name ASC, a.id ASC")
	assert.Contains(t, query, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []interface{}{10, 0}, args)
}

func TestBuildFilterQuery_AllFiltersAreConjunctive(t *testing.T) {
	f := model.AuthorFilter{
		Page:           intPtr(2),
		RecordsPerPage: intPtr(5),
		FirstNames:     "Ga",
		LastNames:      "Már",
		Identification: "X1",
		BookTitle:      "Cien",
		HasPhoto:       boolPtr(true),
		HasBooks:       boolPtr(false),
	}
	sort, err := model.ResolveSort("lastName", false)
	assert.NoError(t, err)

	query, args := buildFilterQuery(f, sort)

	assert.Contains(t, query, "a.first_name LIKE '%' || $1 || '%'")
	assert.Contains(t, query, "a.last_name LIKE '%' || $2 || '%'")
	assert.Contains(t, query, "a.identification LIKE '%' || $3 || '%'")
	assert.Contains(t, query, "a.photo IS NOT NULL")
	assert.Contains(t, query, "NOT EXISTS (SELECT 1 FROM author_books ab WHERE ab.author_id = a.id)")
	assert.Contains(t, query, "b.title LIKE '%' || $4 || '%'")
	assert.Contains(t, query, "ORDER BY a.last_name DESC, a.id ASC")
	assert.Contains(t, query, "LIMIT $5 OFFSET $6")
	assert.NotContains(t, query, " OR ")
	assert.Equal(t, []interface{}{"Ga", "Már", "X1", "Cien", 5, 5}, args)
}

func TestBuildFilterQuery_HasBooksAndNoPhoto(t *testing.T) {
	query, args := buildFilterQuery(model.AuthorFilter{
		HasPhoto: boolPtr(false),
		HasBooks: boolPtr(true),
	}, model.DefaultSort)

	assert.Contains(t, query, "a.photo IS NULL")
	assert.Contains(t, query, "EXISTS (SELECT 1 FROM author_books")
	assert.NotContains(t, query, "NOT EXISTS")
	assert.Len(t, args, 2)
}

func TestBuildFilterQuery_UserInputNeverInlined(t *testing.T) {
	evil := "x'; DROP TABLE authors; --"
	query, args := buildFilterQuery(model.AuthorFilter{FirstNames: evil}, model.DefaultSort)

	assert.NotContains(t, query, evil)
	assert.Equal(t, evil, args[0])
}

func TestBuildFilterQuery_ClampsPaging(t *testing.T) {
	_, args := buildFilterQuery(model.AuthorFilter{Page: intPtr(-3), RecordsPerPage: intPtr(0)}, model.DefaultSort)
	assert.Equal(t, []interface{}{1, 0}, args)
}
