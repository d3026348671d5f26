package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/trioguard/trioguard-web/internal/auth"
	"github.com/trioguard/trioguard-web/internal/guilds"
	"github.com/trioguard/trioguard-web/internal/models"
)

type ServerHandler struct {
	sync        *guilds.Service
	authHandler *auth.AuthHandler
}

func NewServerHandler(sync *guilds.Service, authHandler *auth.AuthHandler) *ServerHandler {
	return &ServerHandler{sync: sync, authHandler: authHandler}
}

type ListServersInput struct {
	auth.AuthInput
}

type ListServersOutput struct {
	Body struct {
		Servers []models.Server `json:"servers"`
		Owned   int             `json:"owned"`
		Synced  int             `json:"synced"`
		Warning string          `json:"warning,omitempty"`
	}
}

// HandleList syncs the caller's owned guilds from Discord and returns the
// stored rows. Sync trouble degrades to cached data with a warning; only a
// dead token over an empty cache is an error.
func (h *ServerHandler) HandleList(ctx context.Context, input *ListServersInput) (*ListServersOutput, error) {
	profileID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	result, err := h.sync.SyncOwnedServers(ctx, profileID)
	if err != nil {
		if errors.Is(err, guilds.ErrReauthRequired) {
			return nil, huma.Error401Unauthorized("Discord connection expired; log out and log back in")
		}
		return nil, huma.Error500InternalServerError("Failed to load servers")
	}

	out := &ListServersOutput{}
	out.Body.Servers = result.Servers
	out.Body.Owned = result.Owned
	out.Body.Synced = result.Synced
	out.Body.Warning = result.Warning
	return out, nil
}
