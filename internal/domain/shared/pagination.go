package shared

// Pagination defaults. Non-positive values in a PageRequest are replaced
// by these, never rejected.
const (
	DefaultPage     = 1
	DefaultPageSize = 25
)

// PageRequest describes one requested page window
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize returns a copy with non-positive fields replaced by defaults
func (p PageRequest) Normalize() PageRequest {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the zero-based offset of the first row in the window.
// The window covers rows [Offset, Offset+PageSize-1].
func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// DefaultPageRequest returns the default page window
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Paginated represents a paginated result. Total always reflects the full
// filtered corpus, not the page length; it is supplied by the caller and
// never inferred from a short page.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
