package utils

const (
	DefaultPage  = 1
	DefaultLimit = 10
	// MaxLimit bounds every paginated endpoint.
	MaxLimit = 100
)

// Pagination is a normalized page request.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination applies defaults to non-positive values and caps limit at
// MaxLimit.
func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// Offset is the number of rows skipped before the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PaginationMeta is the pagination block of list responses.
type PaginationMeta struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Meta describes the page p within total matching rows. TotalPages is
// ceil(total/limit) and therefore 0 for an empty result.
func (p Pagination) Meta(total int64) PaginationMeta {
	totalPages := TotalPages(total, p.Limit)
	return PaginationMeta{
		Total:       total,
		Page:        p.Page,
		Limit:       p.Limit,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ApplyPagination calculates slice indices for paginating an in-memory list
// of total items: items[start:end].
func ApplyPagination(total int, p Pagination) (start, end int) {
	start = p.Offset()
	end = start + p.Limit

	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return start, end
}
