package models

import (
	"time"
)

// Profile mirrors the authenticated dashboard user. Created lazily on the
// first OAuth callback.
type Profile struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	DiscordID string    `gorm:"uniqueIndex" json:"discord_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
