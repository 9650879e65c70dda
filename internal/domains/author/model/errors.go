package model

import "errors"

var (
	ErrAuthorNotFound   = errors.New("author not found")
	ErrUnknownSortField = errors.New("unknown sort field")
	ErrNoValidIDs       = errors.New("No valid IDs were provided")
	ErrAuthorsMissing   = errors.New("one or more authors do not exist")
	ErrInvalidPhoto     = errors.New("invalid photo")
)
