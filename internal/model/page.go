package model

import "math"

// MaxPage is the highest page index accepted from clients.
const MaxPage = math.MaxInt32

// maxOffset leaves headroom so a database adding LIMIT to OFFSET cannot overflow.
const maxOffset = math.MaxInt / 2

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Content    []T `json:"content"`
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds a page and derives TotalPages from the total item count.
func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:    content,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}

// Offset returns the row offset of page, saturating at maxOffset instead of
// overflowing. Negative pages start at 0.
func Offset(page, size int) int {
	if page <= 0 || size <= 0 {
		return 0
	}
	if page > maxOffset/size {
		return maxOffset
	}
	return page * size
}
