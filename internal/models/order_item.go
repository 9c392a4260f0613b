package models

import "time"

// OrderItem is a priced line of an order. ProductName and PriceCentsAtOrder
// are snapshots taken at placement time; later catalog edits or deletions
// never touch them.
type OrderItem struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	OrderID           uint      `gorm:"index;not null" json:"order_id"`
	ProductID         uint      `gorm:"index;not null" json:"product_id"`
	ProductName       string    `gorm:"not null" json:"product_name"`
	PriceCentsAtOrder int64     `gorm:"not null" json:"price_cents_at_order"`
	Quantity          int       `gorm:"not null" json:"quantity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
