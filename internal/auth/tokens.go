package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/trioguard/trioguard-web/internal/discord"
	"github.com/trioguard/trioguard-web/internal/models"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrNoToken means no delegated token is stored for the profile at all.
var ErrNoToken = errors.New("auth: no discord token stored")

// ErrReauthRequired means neither the stored token nor a silent refresh can
// produce a usable token; the user has to go through consent again.
var ErrReauthRequired = errors.New("auth: re-authentication required")

// TokenManager hands out usable Discord access tokens, refreshing them when
// needed. Concurrent refreshes for the same profile collapse into a single
// in-flight provider call.
type TokenManager struct {
	db      *gorm.DB
	discord *discord.Client
	group   singleflight.Group
}

func NewTokenManager(db *gorm.DB, client *discord.Client) *TokenManager {
	return &TokenManager{db: db, discord: client}
}

// ValidToken returns an access token that Discord currently accepts. The
// stored token is probed first; on expiry or rejection one refresh is
// attempted. Errors are ErrNoToken, ErrReauthRequired, or an upstream
// classification from the discord package.
func (m *TokenManager) ValidToken(ctx context.Context, profileID string) (string, error) {
	var stored models.DiscordToken
	if err := m.db.First(&stored, "profile_id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if stored.AccessToken == "" {
		return "", ErrNoToken
	}

	if !stored.Expired(time.Now()) {
		_, err := m.discord.CurrentUser(ctx, stored.AccessToken)
		if err == nil {
			return stored.AccessToken, nil
		}
		if !discord.IsAuthError(err) {
			return "", err
		}
		// Not expired on paper, rejected in practice. The probe wins.
		log.Printf("Token for profile %s rejected despite local expiry, attempting refresh", profileID)
	}

	return m.Refresh(ctx, profileID)
}

// Refresh exchanges the stored refresh token for a new pair and re-validates
// the result before reporting it usable. Fails fast without a refresh token;
// no network call is made in that case.
func (m *TokenManager) Refresh(ctx context.Context, profileID string) (string, error) {
	token, err, _ := m.group.Do(profileID, func() (interface{}, error) {
		return m.refresh(ctx, profileID)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

func (m *TokenManager) refresh(ctx context.Context, profileID string) (string, error) {
	var stored models.DiscordToken
	if err := m.db.First(&stored, "profile_id = ?", profileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	if stored.RefreshToken == "" {
		return "", ErrReauthRequired
	}

	pair, err := m.discord.RefreshToken(ctx, stored.RefreshToken)
	if err != nil {
		if errors.Is(err, discord.ErrRefreshRejected) {
			log.Printf("Refresh token rejected for profile %s", profileID)
			return "", ErrReauthRequired
		}
		return "", err
	}

	// A refresh that yields a token Discord then refuses is a failed
	// refresh, not a success with a broken token.
	if _, err := m.discord.CurrentUser(ctx, pair.AccessToken); err != nil {
		if discord.IsAuthError(err) {
			return "", ErrReauthRequired
		}
		return "", err
	}

	stored.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		stored.RefreshToken = pair.RefreshToken
	}
	stored.ExpiresAt = pair.ExpiresAt
	if err := m.db.Save(&stored).Error; err != nil {
		return "", fmt.Errorf("failed to persist refreshed token: %w", err)
	}

	return stored.AccessToken, nil
}
