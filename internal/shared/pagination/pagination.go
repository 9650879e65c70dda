package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage           = 1
	DefaultRecordsPerPage = 10
	MaxRecordsPerPage     = 50

	// TotalCountHeader carries the row count before pagination
	TotalCountHeader = "total-records-count"
)

// Params is the page window requested by the caller.
// Out-of-range values are clamped, never rejected.
type Params struct {
	Page           int
	RecordsPerPage int
}

// New returns clamped params
func New(page, recordsPerPage int) Params {
	return Params{Page: page, RecordsPerPage: recordsPerPage}.Normalize()
}

// FromQuery reads ?page= and ?recordsPerPage= (alias ?pageSize=).
// Missing or malformed values fall back to the defaults.
func FromQuery(c *gin.Context) Params {
	page := queryInt(c, DefaultPage, "page")
	size := queryInt(c, DefaultRecordsPerPage, "recordsPerPage", "pageSize")
	return New(page, size)
}

// Normalize clamps page to >= 1 and records per page to [1, 50]
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.RecordsPerPage < 1:
		p.RecordsPerPage = 1
	case p.RecordsPerPage > MaxRecordsPerPage:
		p.RecordsPerPage = MaxRecordsPerPage
	}
	return p
}

func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.RecordsPerPage
}

func (p Params) Limit() int {
	return p.Normalize().RecordsPerPage
}

// SetTotalHeader writes the pre-pagination row count
func SetTotalHeader(c *gin.Context, total int64) {
	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))
}

func queryInt(c *gin.Context, def int, keys ...string) int {
	for _, key := range keys {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return def
		}
		return v
	}
	return def
}
