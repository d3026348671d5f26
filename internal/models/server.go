package models

import (
	"time"
)

// Server mirrors a Discord guild owned by a dashboard user. The primary key
// is the guild id assigned by Discord, never generated locally.
type Server struct {
	ID       string    `gorm:"primaryKey" json:"id"`
	Name     string    `json:"name"`
	Icon     *string   `json:"icon"`
	OwnerID  string    `gorm:"index" json:"owner_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
