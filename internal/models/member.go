package models

import (
	"time"
)

// ServerMember links a user to a server with a free-text role label. The role
// is descriptive ("owner", "admin", "moderator", "member"); it is not an
// enforced enum.
type ServerMember struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ServerID  string    `gorm:"index:idx_member_server_user,unique" json:"server_id"`
	UserID    string    `gorm:"index:idx_member_server_user,unique" json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
