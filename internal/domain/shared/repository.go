package shared

import "context"

// PageRequest selects one page of an ordered collection. Page is 1-based.
type PageRequest struct {
	Page    int
	PerPage int
}

// Offset returns the number of rows to skip
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Validate rejects pages that can never exist
func (p PageRequest) Validate() error {
	if p.Page < 1 || p.PerPage < 1 {
		return ErrPageNotFound
	}
	return nil
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"pages"`
}

// HasNext reports whether a following page exists
func (p Paginated[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether a preceding page exists
func (p Paginated[T]) HasPrev() bool {
	return p.Page > 1
}

// NewPaginated creates a new paginated result. An empty page other than the
// first one is reported as ErrPageNotFound.
func NewPaginated[T any](items []T, total int64, req PageRequest) (Paginated[T], error) {
	if err := req.Validate(); err != nil {
		return Paginated[T]{}, err
	}
	if len(items) == 0 && req.Page != 1 {
		return Paginated[T]{}, ErrPageNotFound
	}
	totalPages := int(total) / req.PerPage
	if int(total)%req.PerPage > 0 {
		totalPages++
	}
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PerPage:    req.PerPage,
		TotalPages: totalPages,
	}, nil
}

// ListFunc loads one page plus the total row count
type ListFunc[T any] func(ctx context.Context, req PageRequest) ([]T, int64, error)

// Paginate runs fn and wraps its output into a Paginated result
func Paginate[T any](ctx context.Context, req PageRequest, fn ListFunc[T]) (Paginated[T], error) {
	if err := req.Validate(); err != nil {
		return Paginated[T]{}, err
	}
	items, total, err := fn(ctx, req)
	if err != nil {
		return Paginated[T]{}, err
	}
	return NewPaginated(items, total, req)
}
