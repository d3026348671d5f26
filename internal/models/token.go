package models

import (
	"time"
)

// DiscordToken holds the delegated OAuth token pair for a profile. The expiry
// timestamp is advisory; Discord remains the authority on whether the access
// token is still accepted.
type DiscordToken struct {
	ProfileID    string    `gorm:"primaryKey" json:"profile_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Expired reports whether the access token is past its advisory expiry.
func (t *DiscordToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}
