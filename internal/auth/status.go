package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/trioguard/trioguard-web/internal/discord"
	"github.com/trioguard/trioguard-web/internal/models"
	"gorm.io/gorm"
)

// SessionStatus is the coarse classification of the current session's
// usability against the Discord API.
type SessionStatus string

const (
	// StatusNoSession means no valid dashboard session cookie is present.
	StatusNoSession SessionStatus = "no_session"
	// StatusWrongProvider means the session was issued for a provider
	// other than Discord.
	StatusWrongProvider SessionStatus = "wrong_provider"
	// StatusNoToken means there is no usable delegated token: none stored,
	// expired, or rejected by the live probe.
	StatusNoToken SessionStatus = "no_token"
	// StatusValid means the stored access token was accepted by Discord.
	StatusValid SessionStatus = "valid"
	// StatusError means the check itself failed (storage or upstream
	// outage); nothing can be said about the token.
	StatusError SessionStatus = "error"
)

// CheckSession classifies the session identified by the raw Cookie header.
// Read-only: it never refreshes or rewrites anything. The live probe is
// authoritative; a 401 there overrules a future local expiry timestamp.
func (h *AuthHandler) CheckSession(ctx context.Context, cookieHeader string) (SessionStatus, string) {
	claims, err := h.parseSession(cookieHeader)
	if err != nil {
		return StatusNoSession, "not logged in"
	}

	provider, _ := claims["provider"].(string)
	if provider != SessionProvider {
		return StatusWrongProvider, "session was not created via Discord; log in with Discord to use the dashboard"
	}

	profileID, _ := claims["sub"].(string)
	var stored models.DiscordToken
	if err := h.db.First(&stored, "profile_id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StatusNoToken, "no Discord token on file"
		}
		log.Printf("Session check: failed to load token for profile %s: %v", profileID, err)
		return StatusError, "could not load token state"
	}

	if stored.AccessToken == "" {
		return StatusNoToken, "no Discord token on file"
	}
	if stored.Expired(time.Now()) && stored.RefreshToken == "" {
		return StatusNoToken, "token expired and no refresh token stored"
	}

	if _, err := h.discord.CurrentUser(ctx, stored.AccessToken); err != nil {
		if discord.IsAuthError(err) {
			return StatusNoToken, "token rejected by Discord"
		}
		log.Printf("Session check: probe failed for profile %s: %v", profileID, err)
		return StatusError, "could not verify token with Discord"
	}

	return StatusValid, ""
}

type StatusInput struct {
	AuthInput
}

type StatusOutput struct {
	Body struct {
		Status SessionStatus `json:"status" enum:"no_session,wrong_provider,no_token,valid,error"`
		Detail string        `json:"detail,omitempty"`
	}
}

// HandleStatus reports the session classification to the dashboard so it can
// decide between rendering, prompting a re-login, or showing an error.
func (h *AuthHandler) HandleStatus(ctx context.Context, input *StatusInput) (*StatusOutput, error) {
	status, detail := h.CheckSession(ctx, input.Cookie)
	out := &StatusOutput{}
	out.Body.Status = status
	out.Body.Detail = detail
	return out, nil
}
