package repository

import "time"

// ProductListFilter filters product list queries.
type ProductListFilter struct {
	Page          int
	PageSize      int
	Category      string
	Search        string
	OnlyAvailable bool
}

// OrderListFilter filters order list queries.
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      *uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
