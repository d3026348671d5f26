package guilds

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/trioguard/trioguard-web/internal/auth"
	"github.com/trioguard/trioguard-web/internal/discord"
	"github.com/trioguard/trioguard-web/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrReauthRequired is returned when no usable token exists and the backend
// has nothing cached to serve either.
var ErrReauthRequired = errors.New("guilds: re-authentication required")

// Service reconciles the set of Discord guilds a user owns into the servers
// table, then serves reads from it.
type Service struct {
	db      *gorm.DB
	discord *discord.Client
	tokens  *auth.TokenManager
}

func NewService(db *gorm.DB, client *discord.Client, tokens *auth.TokenManager) *Service {
	return &Service{db: db, discord: client, tokens: tokens}
}

// Result is the outcome of a sync: the rows to render plus how much of the
// live reconciliation actually happened.
type Result struct {
	Servers []models.Server
	Owned   int
	Synced  int
	// Warning is a user-facing note when the live sync was skipped or
	// degraded and the rows come from the backend cache only.
	Warning string
}

// SyncOwnedServers runs the full reconcile-then-read flow. Sync failures
// degrade to serving stored rows; the only hard failure is having neither a
// usable token nor any cached data.
func (s *Service) SyncOwnedServers(ctx context.Context, profileID string) (*Result, error) {
	result := &Result{}

	var syncErr error
	token, err := s.tokens.ValidToken(ctx, profileID)
	if err != nil {
		syncErr = err
		result.Warning = syncWarning(err)
		log.Printf("Guild sync for profile %s degraded to cached data: %v", profileID, err)
	} else if err := s.reconcile(ctx, token, profileID, result); err != nil {
		syncErr = err
		result.Warning = syncWarning(err)
		log.Printf("Guild sync for profile %s failed, serving cached data: %v", profileID, err)
	}

	if err := s.db.Where("owner_id = ?", profileID).Order("name").Find(&result.Servers).Error; err != nil {
		return nil, fmt.Errorf("failed to read servers: %w", err)
	}

	if len(result.Servers) == 0 && tokenUnusable(syncErr) {
		return nil, ErrReauthRequired
	}

	return result, nil
}

func (s *Service) reconcile(ctx context.Context, token, profileID string, result *Result) error {
	guildList, err := s.discord.UserGuilds(ctx, token)
	if discord.IsAuthError(err) {
		// The token went bad between the validity probe and the guild
		// fetch. One refresh, then one more try. A failed refresh is
		// the real story here, not the 401 that triggered it.
		refreshed, refreshErr := s.tokens.Refresh(ctx, profileID)
		if refreshErr != nil {
			return refreshErr
		}
		guildList, err = s.discord.UserGuilds(ctx, refreshed)
	}
	if err != nil {
		return err
	}

	// Administrative permission bits are not enough; only true ownership
	// puts a guild on the dashboard.
	for _, g := range guildList {
		if !g.Owner {
			continue
		}
		result.Owned++
		if err := s.upsertGuild(g, profileID); err != nil {
			log.Printf("Failed to sync guild %s (%s): %v", g.Name, g.ID, err)
			continue
		}
		result.Synced++
	}

	log.Printf("Synced %d of %d owned guilds for profile %s", result.Synced, result.Owned, profileID)
	return nil
}

func (s *Service) upsertGuild(g discord.Guild, profileID string) error {
	var icon *string
	if g.Icon != "" {
		url := discordgo.EndpointGuildIcon(g.ID, g.Icon)
		icon = &url
	}

	server := models.Server{
		ID:      g.ID,
		Name:    g.Name,
		Icon:    icon,
		OwnerID: profileID,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "icon", "owner_id"}),
	}).Create(&server).Error
	if err != nil {
		return fmt.Errorf("failed to upsert server: %w", err)
	}

	settings := models.DefaultBotSettings(g.ID)
	if err := s.db.Where(models.BotSettings{ServerID: g.ID}).FirstOrCreate(&settings).Error; err != nil {
		return fmt.Errorf("failed to init bot settings: %w", err)
	}

	member := models.ServerMember{
		ID:       uuid.NewString(),
		ServerID: g.ID,
		UserID:   profileID,
		Role:     "owner",
	}
	err = s.db.Where(models.ServerMember{ServerID: g.ID, UserID: profileID}).
		FirstOrCreate(&member).Error
	if err != nil {
		return fmt.Errorf("failed to link server member: %w", err)
	}

	return nil
}

// tokenUnusable reports whether the failure proves the stored token is beyond
// saving: absent, unrefreshable, or rejected by Discord after a refresh was
// already attempted.
func tokenUnusable(err error) bool {
	if errors.Is(err, auth.ErrNoToken) || errors.Is(err, auth.ErrReauthRequired) {
		return true
	}
	var apiErr *discord.APIError
	return errors.As(err, &apiErr) && apiErr.Kind == discord.KindAuth
}

func syncWarning(err error) string {
	switch {
	case errors.Is(err, auth.ErrNoToken):
		return "No Discord connection on file; log in with Discord to sync your servers."
	case errors.Is(err, auth.ErrReauthRequired):
		return "Your Discord session could not be renewed; log out and back in to sync."
	}
	var apiErr *discord.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case discord.KindRateLimited:
			return "Discord is rate limiting us; showing cached servers."
		case discord.KindServer:
			return "Discord is having trouble; showing cached servers."
		case discord.KindAuth:
			return "Discord rejected the stored credentials; log out and back in to sync."
		}
	}
	return "Could not reach Discord; showing cached servers."
}
