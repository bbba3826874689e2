package models

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Pagination summarizes one page of a larger result set.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalTasks  int64 `json:"totalTasks"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// NewPagination computes the summary for a page. A page past the end still
// yields a structurally valid summary.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalTasks:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// ParsePage falls back to the default when the value is missing, unparsable
// or below 1, matching how the original API treated query parameters.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}

func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return DefaultLimit
	}
	return limit
}

// Offset is the number of records skipped before the requested page.
func Offset(page, limit int) int64 {
	return int64(page-1) * int64(limit)
}
