package models

import (
	"time"

	"gorm.io/gorm"
)

// Order records a placed order. TotalCents is always computed server-side
// from the item snapshots; client-sent prices never reach this table.
type Order struct {
	ID                    uint           `gorm:"primarykey" json:"id"`
	UserID                *uint          `gorm:"index" json:"user_id,omitempty"` // nil for guest checkout
	CustomerName          string         `gorm:"not null" json:"customer_name"`
	CustomerEmail         string         `gorm:"index;not null" json:"customer_email"`
	CustomerPhone         string         `json:"customer_phone"`
	TotalCents            int64          `gorm:"not null" json:"total_cents"`
	Status                string         `gorm:"index;not null;default:'pending'" json:"status"`         // pending / confirmed / ready / completed / cancelled
	PaymentMethod         string         `gorm:"type:varchar(20);not null" json:"payment_method"`        // online / pickup
	PaymentStatus         string         `gorm:"index;not null;default:'pending'" json:"payment_status"` // pending / paid / failed
	StripeSessionID       string         `gorm:"index" json:"stripe_session_id,omitempty"`
	StripePaymentIntentID string         `json:"stripe_payment_intent_id,omitempty"`
	Notes                 string         `gorm:"type:text" json:"notes"`
	PickupDate            *time.Time     `json:"pickup_date,omitempty"`
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}
