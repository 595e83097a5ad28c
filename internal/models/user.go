package models

import (
	"time"
)

// User is never physically deleted; deactivation flips IsActive so that
// historical task references stay resolvable.
type User struct {
	ID           string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'developer'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	Avatar       string    `gorm:"type:varchar(512)" json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
