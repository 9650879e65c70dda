package model

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")

	// author validation, reported under the "authorsIds" field
	ErrNoAuthors = errors.New("A book cannot be created without authors")
)

// MissingAuthorsMessage lists the ids that did not resolve to an author
func MissingAuthorsMessage(ids []int) string {
	return "The following authors do not exist: " + joinInts(ids)
}
