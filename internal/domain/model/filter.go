package model

import "time"

// SortOrder is a list ordering direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// OrderFilter enumerates the supported order list filters. Only fields listed
// here can reach the query layer.
type OrderFilter struct {
	Status      *OrderStatus
	ProductID   *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	SortBy      string
	SortOrder   SortOrder
	Page        int
	PageSize    int
}

// Normalize applies pagination defaults and caps.
func (f *OrderFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	if f.SortBy == "" {
		f.SortBy = "createdAt"
	}
	if f.SortOrder != SortAsc {
		f.SortOrder = SortDesc
	}
}

// Offset returns the row offset implied by pagination settings.
func (f OrderFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
