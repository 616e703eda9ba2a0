package shared

// Paginated represents one page of a larger result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// TotalPages returns ceil(total/pageSize), 0 when there is nothing to show
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		pages++
	}
	return int(pages)
}

// ClampPage keeps page inside [1, totalPages]. With no pages the result is 1.
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// NewPaginated wraps a page that was already sliced by the database
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if items == nil {
		items = make([]T, 0)
	}
	totalPages := TotalPages(total, pageSize)
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       ClampPage(page, totalPages),
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Paginate slices an in-memory result set.
// The returned page never holds more than pageSize items and the page number
// is clamped, so asking for page 9 of 3 returns page 3.
func Paginate[T any](items []T, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := int64(len(items))
	totalPages := TotalPages(total, pageSize)
	page = ClampPage(page, totalPages)

	start := (page - 1) * pageSize
	if start > len(items) {
		start = len(items)
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	window := make([]T, end-start)
	copy(window, items[start:end])

	return Paginated[T]{
		Items:      window,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
