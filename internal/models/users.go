package models

import (
	"time"

	"gorm.io/gorm"
)

// Users are station staff. Role gates the API: admins manage accounts,
// managers own the broadcast calendar, DJs see their own slots.
type Users struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"` // Hidden from JSON
	DisplayName  string         `json:"display_name"`
	Role         string         `gorm:"type:varchar(20);default:'dj'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
