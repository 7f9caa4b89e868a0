// Package pagination presents a fixed-size window over an externally owned,
// ordered list and lets callers step through it one page at a time.
//
// The pager never copies the list. Every derived value is recomputed from the
// source on read, so a list that grows or shrinks between calls is reflected
// immediately. The current page is not clamped when the list shrinks; a pager
// left past the last page yields an empty window until PrevPage is called.
package pagination

import (
	"errors"
	"fmt"

	"repobrowser/framework/reactive"
)

const DefaultPageSize = 10

var ErrInvalidConfig = errors.New("invalid pager config")

// Source is a live view of the paged list. *reactive.Ref[[]T] satisfies it.
type Source[T any] interface {
	Get() []T
}

type Pager[T any] struct {
	items    Source[T]
	pageSize int
	current  *reactive.Ref[int]
}

func New[T any](items Source[T], pageSize int) (*Pager[T], error) {
	if items == nil {
		return nil, fmt.Errorf("%w: items source is nil", ErrInvalidConfig)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidConfig, pageSize)
	}

	return &Pager[T]{
		items:    items,
		pageSize: pageSize,
		current:  reactive.NewRef(1),
	}, nil
}

func (p *Pager[T]) PageSize() int {
	return p.pageSize
}

func (p *Pager[T]) CurrentPage() int {
	return p.current.Get()
}

// OnPageChange calls fn with the new page number after every page move.
func (p *Pager[T]) OnPageChange(fn func(page int)) func() {
	return p.current.Subscribe(fn)
}

func (p *Pager[T]) Len() int {
	return len(p.items.Get())
}

func (p *Pager[T]) TotalPages() int {
	return totalPages(p.Len(), p.pageSize)
}

// Items returns the window for the current page. The result aliases the
// source slice.
func (p *Pager[T]) Items() []T {
	items := p.items.Get()
	start := (p.current.Get() - 1) * p.pageSize
	if start >= len(items) {
		return []T{}
	}

	end := min(start+p.pageSize, len(items))
	return items[start:end]
}

func (p *Pager[T]) HasNext() bool {
	return p.current.Get() < p.TotalPages()
}

func (p *Pager[T]) HasPrev() bool {
	return p.current.Get() > 1
}

func (p *Pager[T]) NextPage() {
	if p.HasNext() {
		p.current.Update(func(page int) int { return page + 1 })
	}
}

func (p *Pager[T]) PrevPage() {
	if p.HasPrev() {
		p.current.Update(func(page int) int { return page - 1 })
	}
}

// Seek moves toward page using NextPage and PrevPage, stopping at whichever
// bound comes first.
func (p *Pager[T]) Seek(page int) {
	for p.CurrentPage() < page && p.HasNext() {
		p.NextPage()
	}
	for p.CurrentPage() > page && p.HasPrev() {
		p.PrevPage()
	}
}

func totalPages(length int, pageSize int) int {
	if length <= 0 {
		return 0
	}
	return (length + pageSize - 1) / pageSize
}
