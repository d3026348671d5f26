package models

import (
	"time"
)

// BotSettings is the per-server bot configuration, one row per Server.
type BotSettings struct {
	ServerID          string    `gorm:"primaryKey" json:"server_id"`
	AutoMod           bool      `json:"auto_mod"`
	ModerationEnabled bool      `json:"moderation_enabled"`
	WelcomeEnabled    bool      `json:"welcome_enabled"`
	WelcomeChannel    string    `json:"welcome_channel"`
	WelcomeMessage    string    `json:"welcome_message"`
	CommandPrefix     string    `json:"command_prefix"`
	LogChannel        string    `json:"log_channel"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultBotSettings returns the settings row created when a server is first
// synced.
func DefaultBotSettings(serverID string) BotSettings {
	return BotSettings{
		ServerID:       serverID,
		CommandPrefix:  "-",
		WelcomeMessage: "Welcome to the server, {user}!",
	}
}
