package store

import "math"

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// PaginationParams carries the page window and optional search keyword for
// list queries
type PaginationParams struct {
	Page     int
	PageSize int
	Search   string
}

// PaginationResult is the pagination envelope returned next to every
// paginated listing
type PaginationResult struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	HasPrev     bool  `json:"has_prev"`
	HasNext     bool  `json:"has_next"`
	PrevPage    int   `json:"prev_page"`
	NextPage    int   `json:"next_page"`
}

// NewPaginationParams normalizes raw query values: page floors at 1, page
// size defaults to 10 and caps at 50
func NewPaginationParams(page, pageSize int, search string) PaginationParams {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Search:   search,
	}
}

// CalculatePagination builds the envelope for a total row count and window
func CalculatePagination(total int64, currentPage, pageSize int) PaginationResult {
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages && totalPages > 0 {
		currentPage = totalPages
	}

	return PaginationResult{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    max(currentPage-1, 1),
		NextPage:    min(currentPage+1, totalPages),
	}
}
