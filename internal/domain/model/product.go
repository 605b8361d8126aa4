package model

import "time"

// Product describes a catalog item referenced by order line items.
type Product struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Price       int64
	Thumbnail   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
