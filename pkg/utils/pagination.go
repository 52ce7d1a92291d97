package utils

// MaxPageSize caps the limit a listing accepts.
const MaxPageSize = 100

// PageRequest is a normalized page/limit pair. Limit 0 means the whole
// collection on one page.
type PageRequest struct {
	Page  int
	Limit int
}

// PaginationMeta holds pagination response metadata
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// NewPageRequest clamps raw query values: page starts at 1, negative limits
// become 0 and limits above MaxPageSize are cut down.
func NewPageRequest(page, limit int) PageRequest {
	if page < 1 {
		page = 1
	}
	switch {
	case limit < 0:
		limit = 0
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return PageRequest{Page: page, Limit: limit}
}

// Paginate returns the requested window of items with its metadata. Pages
// past the end are empty, never nil.
func Paginate[T any](items []T, req PageRequest) ([]T, PaginationMeta) {
	total := len(items)
	if req.Limit <= 0 {
		return items, PaginationMeta{Page: 1, Limit: total, TotalCount: int64(total), TotalPages: 1}
	}

	meta := PaginationMeta{
		Page:       req.Page,
		Limit:      req.Limit,
		TotalCount: int64(total),
		TotalPages: (total + req.Limit - 1) / req.Limit,
	}
	start := (req.Page - 1) * req.Limit
	if start >= total {
		return []T{}, meta
	}
	return items[start:min(start+req.Limit, total)], meta
}
