package model

import "math"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
	// MaxPageNumber keeps Offset within int32 for every allowed limit.
	MaxPageNumber = math.MaxInt32 / MaxPageLimit
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage clamps raw query values: page below 1 becomes 1, a non-positive
// limit becomes the default and large pages and limits are capped.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if number > MaxPageNumber {
		number = MaxPageNumber
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func NewPagination(p Page, total int64) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{Page: p.Number, Limit: p.Limit, Total: total, Pages: pages}
}
