package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a bakery catalog item. Prices are integer cents.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	PriceCents  int64          `gorm:"not null" json:"price_cents"` // always > 0
	ImageURL    string         `json:"image_url"`
	Category    string         `gorm:"index" json:"category"`
	Available   bool           `gorm:"not null;default:true;index" json:"available"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}
