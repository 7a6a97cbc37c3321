// Package table holds the value objects shared between the query engine and
// the presentation layer: page requests, page results, view state and the
// display configuration of a table.
//
// Everything here is an immutable snapshot. A Page has no reference back to
// the collection it was cut from and lives only as long as the call that
// produced it.
package table

import (
	"errors"
	"fmt"
)

// ErrInvalidPage is returned when a page request has a non-positive page
// number or page size.
var ErrInvalidPage = errors.New("invalid page request")

// PageRequest selects one page of an ordered sequence.
type PageRequest struct {
	Number int // 1-based page number
	Size   int // Items per page
}

// Validate rejects non-positive page numbers and sizes.
func (r PageRequest) Validate() error {
	if r.Number < 1 {
		return fmt.Errorf("%w: page must be a positive integer, got %d", ErrInvalidPage, r.Number)
	}
	if r.Size < 1 {
		return fmt.Errorf("%w: page size must be a positive integer, got %d", ErrInvalidPage, r.Size)
	}
	return nil
}

// Offset returns the index of the first item on the requested page.
// Page numbers are 1-based, so page 1 has offset 0.
func (r PageRequest) Offset() int {
	return (r.Number - 1) * r.Size
}

// Page is one page of a larger filtered and sorted sequence.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PageSize    int
	TotalItems  int64 // Items across all pages, after filtering
}

// NewPage wraps items as the page described by req.
func NewPage[T any](items []T, req PageRequest, totalItems int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		CurrentPage: req.Number,
		PageSize:    req.Size,
		TotalItems:  totalItems,
	}
}

// TotalPages returns ceil(TotalItems / PageSize).
// An empty result has zero pages.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.TotalItems <= 0 {
		return 0
	}
	return int((p.TotalItems-1)/int64(p.PageSize) + 1)
}

// HasPrevious reports whether a page exists before the current one.
func (p Page[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a page exists after the current one.
func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages()
}

// PreviousPage returns the previous page number, or 1 on the first page.
func (p Page[T]) PreviousPage() int {
	if !p.HasPrevious() {
		return 1
	}
	return p.CurrentPage - 1
}

// NextPage returns the next page number, or the current one on the last page.
func (p Page[T]) NextPage() int {
	if !p.HasNext() {
		return p.CurrentPage
	}
	return p.CurrentPage + 1
}

// IsEmpty reports whether the page holds no items.
func (p Page[T]) IsEmpty() bool {
	return len(p.Items) == 0
}

// FirstItem returns the 1-based position of the first item on this page,
// or 0 when the page is empty.
func (p Page[T]) FirstItem() int64 {
	if p.IsEmpty() {
		return 0
	}
	return int64(p.CurrentPage-1)*int64(p.PageSize) + 1
}

// LastItem returns the 1-based position of the last item on this page,
// or 0 when the page is empty.
func (p Page[T]) LastItem() int64 {
	if p.IsEmpty() {
		return 0
	}
	return p.FirstItem() + int64(len(p.Items)) - 1
}

// Window returns the page numbers within radius of the current page,
// clamped to [1, TotalPages]. Used to render numbered pagination links.
func (p Page[T]) Window(radius int) []int {
	total := p.TotalPages()
	if total == 0 {
		return nil
	}
	if radius < 0 {
		radius = 0
	}

	start := p.CurrentPage - radius
	if start < 1 {
		start = 1
	}
	end := p.CurrentPage + radius
	if end > total {
		end = total
	}
	if start > end {
		// Current page is past the end; show the tail.
		start = max(1, total-radius)
		end = total
	}

	pages := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	return pages
}

// Map converts a page of T into a page of U, keeping the pagination metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[U]{
		Items:       items,
		CurrentPage: p.CurrentPage,
		PageSize:    p.PageSize,
		TotalItems:  p.TotalItems,
	}
}
