package view

// Page is one slice of a longer sequence.
type Page[T any] struct {
	Items []T `json:"items"`
	// Page is 1-indexed.
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	// TotalCount is the length of the sequence before slicing.
	TotalCount int `json:"total_count"`
	PageCount  int `json:"page_count"`
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.PageCount }

// HasPrev reports whether an earlier, non-empty page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 && p.PageCount > 0 }

// Paginate returns page number page (1-indexed) of items.
// A page past the end is empty, not an error.
func Paginate[T any](items []T, page, pageSize int) (Page[T], error) {
	if page < 1 {
		return Page[T]{}, ErrInvalidPage
	}
	if pageSize < 1 {
		return Page[T]{}, ErrInvalidPageSize
	}

	total := len(items)
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		PageCount:  PageCount(total, pageSize),
	}

	// Compared by page number so a huge page cannot overflow the offset.
	if page > p.PageCount {
		return p, nil
	}
	offset := (page - 1) * pageSize
	end := min(offset+pageSize, total)

	p.Items = make([]T, end-offset)
	copy(p.Items, items[offset:end])
	return p, nil
}

// PageCount is ceil(total / pageSize), and 0 for an empty sequence.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total-1)/pageSize + 1
}
