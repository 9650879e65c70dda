package model

import (
	"fmt"
	"strings"

	"biblioteca-api/internal/shared/pagination"
)

// PhotoContainer is the storage container for author photos
const PhotoContainer = "authors"

type Author struct {
	ID             int
	FirstName      string
	LastName       string
	Identification *string
	Photo          *string
	Books          []AuthorBook // ordered by Order
}

// AuthorBook is one row of the author/book join seen from the author
type AuthorBook struct {
	BookID int
	Title  string
	Order  int
}

func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

func (a *Author) HasPhoto() bool {
	return a.Photo != nil && *a.Photo != ""
}

// ========================================
// FILTER & SORT
// ========================================

// AuthorFilter is bound from the query string of GET /authors/filter
type AuthorFilter struct {
	Page           *int   `form:"page"`
	RecordsPerPage *int   `form:"recordsPerPage"`
	FirstNames     string `form:"firstNames"`
	LastNames      string `form:"lastNames"`
	Identification string `form:"identification"`
	BookTitle      string `form:"bookTitle"`
	HasPhoto       *bool  `form:"hasPhoto"`
	HasBooks       *bool  `form:"hasBooks"`
	IncludeBooks   bool   `form:"includeBooks"`
	SortField      string `form:"sortField"`
	IsAscending    *bool  `form:"isAscending"`
}

// Pagination applies defaults to absent values and clamps present ones
func (f AuthorFilter) Pagination() pagination.Params {
	page, size := pagination.DefaultPage, pagination.DefaultRecordsPerPage
	if f.Page != nil {
		page = *f.Page
	}
	if f.RecordsPerPage != nil {
		size = *f.RecordsPerPage
	}
	return pagination.New(page, size)
}

// Ascending defaults to true when isAscending is absent
func (f AuthorFilter) Ascending() bool {
	return f.IsAscending == nil || *f.IsAscending
}

// SortSpec is a resolved, safe ORDER BY column
type SortSpec struct {
	Column    string
	Ascending bool
}

// DefaultSort orders by first name ascending
var DefaultSort = SortSpec{Column: "first_name", Ascending: true}

// sortColumns maps lower-cased API field names to columns. Only these
// columns ever reach the ORDER BY clause.
var sortColumns = map[string]string{
	"firstname":      "first_name",
	"lastname":       "last_name",
	"identification": "identification",
	"id":             "id",
	"photo":          "photo",
}

// ResolveSort maps a caller supplied field to a column.
// An unknown field returns DefaultSort together with ErrUnknownSortField.
func ResolveSort(field string, ascending bool) (SortSpec, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return DefaultSort, nil
	}
	column, ok := sortColumns[strings.ToLower(field)]
	if !ok {
		return DefaultSort, fmt.Errorf("%w: %q", ErrUnknownSortField, field)
	}
	return SortSpec{Column: column, Ascending: ascending}, nil
}

// OrderBy renders the clause with id as tie-breaker
func (s SortSpec) OrderBy(alias string) string {
	dir := "ASC"
	if !s.Ascending {
		dir = "DESC"
	}
	if s.Column == "id" {
		return fmt.Sprintf("%s.id %s", alias, dir)
	}
	return fmt.Sprintf("%s.%s %s, %s.id ASC", alias, s.Column, dir, alias)
}
