package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/trioguard/trioguard-web/internal/auth"
	"github.com/trioguard/trioguard-web/internal/models"
	"gorm.io/gorm"
)

type LoggingHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewLoggingHandler(db *gorm.DB, authHandler *auth.AuthHandler) *LoggingHandler {
	return &LoggingHandler{db: db, authHandler: authHandler}
}

type loggingSettingsBody struct {
	GuildID    string    `json:"guild_id"`
	Enabled    bool      `json:"enabled"`
	LogChannel string    `json:"log_channel"`
	LogEvents  []string  `json:"log_events"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type GetLoggingInput struct {
	auth.AuthInput
	ServerID string `path:"serverId" doc:"Discord guild id"`
}

type LoggingOutput struct {
	Body loggingSettingsBody
}

func (h *LoggingHandler) HandleGet(ctx context.Context, input *GetLoggingInput) (*LoggingOutput, error) {
	profileID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if _, err := ownedServer(h.db, input.ServerID, profileID); err != nil {
		return nil, err
	}

	var settings models.LoggingSettings
	err = h.db.First(&settings, "guild_id = ?", input.ServerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Logging is opt-in; absent row reads as disabled defaults.
		settings = models.LoggingSettings{GuildID: input.ServerID}
	} else if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load logging settings")
	}

	return &LoggingOutput{Body: loggingSettingsBody{
		GuildID:    settings.GuildID,
		Enabled:    settings.Enabled,
		LogChannel: settings.LogChannel,
		LogEvents:  settings.Events(),
		UpdatedAt:  settings.UpdatedAt,
	}}, nil
}

type UpdateLoggingInput struct {
	auth.AuthInput
	ServerID string `path:"serverId" doc:"Discord guild id"`
	Body     struct {
		Enabled    *bool     `json:"enabled,omitempty"`
		LogChannel *string   `json:"log_channel,omitempty"`
		LogEvents  *[]string `json:"log_events,omitempty"`
	}
}

func (h *LoggingHandler) HandleUpdate(ctx context.Context, input *UpdateLoggingInput) (*LoggingOutput, error) {
	profileID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if _, err := ownedServer(h.db, input.ServerID, profileID); err != nil {
		return nil, err
	}

	var settings models.LoggingSettings
	err = h.db.Where(models.LoggingSettings{GuildID: input.ServerID}).FirstOrCreate(&settings).Error
	if err != nil {
		log.Printf("Failed to init logging settings for guild %s: %v", input.ServerID, err)
		return nil, huma.Error500InternalServerError("Failed to save logging settings, try again")
	}

	if v := input.Body.Enabled; v != nil {
		settings.Enabled = *v
	}
	if v := input.Body.LogChannel; v != nil {
		settings.LogChannel = *v
	}
	if v := input.Body.LogEvents; v != nil {
		settings.SetEvents(*v)
	}
	settings.UpdatedAt = time.Now()

	if err := h.db.Save(&settings).Error; err != nil {
		log.Printf("Failed to update logging settings for guild %s: %v", input.ServerID, err)
		return nil, huma.Error500InternalServerError("Failed to save logging settings, try again")
	}

	return &LoggingOutput{Body: loggingSettingsBody{
		GuildID:    settings.GuildID,
		Enabled:    settings.Enabled,
		LogChannel: settings.LogChannel,
		LogEvents:  settings.Events(),
		UpdatedAt:  settings.UpdatedAt,
	}}, nil
}
