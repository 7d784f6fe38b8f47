package models

import "math"

// PageRequest is a zero-based page selector.
type PageRequest struct {
	Index int
	Size  int
}

func (p PageRequest) Offset() int {
	return p.Index * p.Size
}

// MaxPageIndex is the largest index whose offset still fits in an int for the given size.
func MaxPageIndex(size int) int {
	if size <= 0 {
		return 0
	}
	return math.MaxInt / size
}

// Page is one slice of an ordered, owner-scoped result set.
type Page[T any] struct {
	Items         []T
	TotalElements int64
	PageIndex     int
	PageSize      int
}

// TotalPages rounds up; an empty result has zero pages.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// NewPage ensures Items is never nil so it serializes as [].
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:         items,
		TotalElements: total,
		PageIndex:     req.Index,
		PageSize:      req.Size,
	}
}
