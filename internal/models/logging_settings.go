package models

import (
	"strings"
	"time"
)

// LoggingSettings controls the activity-log feature for a guild. LogEvents is
// stored as a comma-separated list; sqlite has no array column type.
type LoggingSettings struct {
	GuildID    string    `gorm:"primaryKey" json:"guild_id"`
	Enabled    bool      `json:"enabled"`
	LogChannel string    `json:"log_channel"`
	LogEvents  string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Events splits the stored event list into its individual event names.
func (s *LoggingSettings) Events() []string {
	if s.LogEvents == "" {
		return nil
	}
	return strings.Split(s.LogEvents, ",")
}

// SetEvents stores the given event names as the watched event list.
func (s *LoggingSettings) SetEvents(events []string) {
	s.LogEvents = strings.Join(events, ",")
}
