package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a storefront account. Admins are users with the admin role.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"default:''" json:"name"`
	Role         string         `gorm:"type:varchar(20);not null;default:'customer';index" json:"role"` // customer / admin
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                                    // bump to invalidate issued tokens
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
