package models

import (
	"time"
)

// Role is a dashboard-level role definition (distinct from Discord roles).
type Role struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserRole assigns a dashboard role to a profile.
type UserRole struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index:idx_user_role,unique" json:"user_id"`
	RoleID    string    `gorm:"index:idx_user_role,unique" json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
}
