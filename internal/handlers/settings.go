package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/trioguard/trioguard-web/internal/auth"
	"github.com/trioguard/trioguard-web/internal/models"
	"github.com/trioguard/trioguard-web/internal/notifier"
	"gorm.io/gorm"
)

type SettingsHandler struct {
	db          *gorm.DB
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewSettingsHandler(db *gorm.DB, n notifier.Notifier, authHandler *auth.AuthHandler) *SettingsHandler {
	return &SettingsHandler{db: db, notifier: n, authHandler: authHandler}
}

type GetSettingsInput struct {
	auth.AuthInput
	ServerID string `path:"serverId" doc:"Discord guild id"`
}

type SettingsOutput struct {
	Body models.BotSettings
}

func (h *SettingsHandler) HandleGet(ctx context.Context, input *GetSettingsInput) (*SettingsOutput, error) {
	profileID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if _, err := ownedServer(h.db, input.ServerID, profileID); err != nil {
		return nil, err
	}

	var settings models.BotSettings
	if err := h.db.First(&settings, "server_id = ?", input.ServerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Settings not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load settings")
	}

	return &SettingsOutput{Body: settings}, nil
}

// UpdateSettingsInput is a partial update: only the fields present in the
// request body are written, everything else stays as stored.
type UpdateSettingsInput struct {
	auth.AuthInput
	ServerID string `path:"serverId" doc:"Discord guild id"`
	Body     struct {
		AutoMod           *bool   `json:"auto_mod,omitempty"`
		ModerationEnabled *bool   `json:"moderation_enabled,omitempty"`
		WelcomeEnabled    *bool   `json:"welcome_enabled,omitempty"`
		WelcomeChannel    *string `json:"welcome_channel,omitempty"`
		WelcomeMessage    *string `json:"welcome_message,omitempty"`
		CommandPrefix     *string `json:"command_prefix,omitempty"`
		LogChannel        *string `json:"log_channel,omitempty"`
	}
}

func (h *SettingsHandler) HandleUpdate(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	profileID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	server, err := ownedServer(h.db, input.ServerID, profileID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if v := input.Body.AutoMod; v != nil {
		updates["auto_mod"] = *v
	}
	if v := input.Body.ModerationEnabled; v != nil {
		updates["moderation_enabled"] = *v
	}
	if v := input.Body.WelcomeEnabled; v != nil {
		updates["welcome_enabled"] = *v
	}
	if v := input.Body.WelcomeChannel; v != nil {
		updates["welcome_channel"] = *v
	}
	if v := input.Body.WelcomeMessage; v != nil {
		updates["welcome_message"] = *v
	}
	if v := input.Body.CommandPrefix; v != nil {
		updates["command_prefix"] = *v
	}
	if v := input.Body.LogChannel; v != nil {
		updates["log_channel"] = *v
	}
	if len(updates) == 0 {
		return nil, huma.Error400BadRequest("No settings to update")
	}
	updates["updated_at"] = time.Now()

	res := h.db.Model(&models.BotSettings{}).Where("server_id = ?", input.ServerID).Updates(updates)
	if res.Error != nil {
		log.Printf("Failed to update settings for server %s: %v", input.ServerID, res.Error)
		return nil, huma.Error500InternalServerError("Failed to save settings, try again")
	}
	if res.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Settings not found")
	}

	if h.notifier != nil {
		delete(updates, "updated_at")
		if err := h.notifier.NotifySettingsChange(*server, updates); err != nil {
			log.Printf("Settings-change notification failed for server %s: %v", input.ServerID, err)
		}
	}

	var settings models.BotSettings
	if err := h.db.First(&settings, "server_id = ?", input.ServerID).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load settings")
	}
	return &SettingsOutput{Body: settings}, nil
}
