package guilds

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/trioguard/trioguard-web/internal/auth"
	"github.com/trioguard/trioguard-web/internal/discord"
	"github.com/trioguard/trioguard-web/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Profile{},
		&models.DiscordToken{},
		&models.Server{},
		&models.BotSettings{},
		&models.ServerMember{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// discordFake drives the three endpoints guild sync touches.
type discordFake struct {
	mu            sync.Mutex
	validTokens   map[string]bool
	guilds        []discord.Guild
	guildsStatus  int
	refreshStatus int
	guildCalls    int
	refreshCalls  int
}

func newDiscordFake() *discordFake {
	return &discordFake{
		validTokens:  map[string]bool{"good-token": true},
		guildsStatus: http.StatusOK,
	}
}

func (f *discordFake) bearer(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); len(auth) > 7 {
		return auth[7:]
	}
	return ""
}

func (f *discordFake) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.URL.Path {
		case "/users/@me":
			if !f.validTokens[f.bearer(r)] {
				http.Error(w, "401", http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id":"42","username":"tester"}`))
		case "/users/@me/guilds":
			f.guildCalls++
			if !f.validTokens[f.bearer(r)] {
				http.Error(w, "401", http.StatusUnauthorized)
				return
			}
			if f.guildsStatus != http.StatusOK {
				http.Error(w, "unavailable", f.guildsStatus)
				return
			}
			json.NewEncoder(w).Encode(f.guilds)
		case "/oauth2/token":
			f.refreshCalls++
			if f.refreshStatus != 0 && f.refreshStatus != http.StatusOK {
				http.Error(w, `{"error":"invalid_grant"}`, f.refreshStatus)
				return
			}
			f.validTokens["fresh-token"] = true
			w.Write([]byte(`{"access_token":"fresh-token","refresh_token":"fresh-refresh","expires_in":3600}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func newService(t *testing.T, db *gorm.DB, baseURL string) *Service {
	t.Helper()
	client := &discord.Client{
		BaseURL:      baseURL,
		HTTP:         &http.Client{Timeout: time.Second},
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Retry:        discord.RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}
	return NewService(db, client, auth.NewTokenManager(db, client))
}

func seedToken(t *testing.T, db *gorm.DB, access, refresh string, expiresAt time.Time) {
	t.Helper()
	err := db.Create(&models.DiscordToken{
		ProfileID:    "p1",
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}).Error
	if err != nil {
		t.Fatalf("failed to seed token: %v", err)
	}
}

func TestSyncOwnedServers(t *testing.T) {
	t.Run("FiltersToOwnedGuilds", func(t *testing.T) {
		fake := newDiscordFake()
		fake.guilds = []discord.Guild{
			{ID: "g1", Name: "Mine", Icon: "h1", Owner: true, Permissions: "8"},
			{ID: "g2", Name: "Admin Only", Icon: "h2", Owner: false, Permissions: "8"},
		}
		srv := fake.server(t)
		defer srv.Close()

		db := newTestDB(t)
		seedToken(t, db, "good-token", "refresh", time.Now().Add(time.Hour))
		svc := newService(t, db, srv.URL)

		result, err := svc.SyncOwnedServers(context.Background(), "p1")
		if err != nil {
			t.Fatalf("SyncOwnedServers returned error: %v", err)
		}
		if result.Owned != 1 || result.Synced != 1 {
			t.Errorf("expected 1 owned / 1 synced, got %d / %d", result.Owned, result.Synced)
		}
		if len(result.Servers) != 1 || result.Servers[0].ID != "g1" {
			t.Fatalf("expected exactly g1, got %+v", result.Servers)
		}
		if result.Servers[0].Icon == nil {
			t.Fatal("expected derived icon URL")
		}

		// Settings and the owner membership row come along.
		var settings models.BotSettings
		if err := db.First(&settings, "server_id = ?", "g1").Error; err != nil {
			t.Errorf("expected bot settings row: %v", err)
		}
		if settings.CommandPrefix != "-" {
			t.Errorf("expected default prefix, got %q", settings.CommandPrefix)
		}
		var member models.ServerMember
		if err := db.First(&member, "server_id = ? AND user_id = ?", "g1", "p1").Error; err != nil {
			t.Errorf("expected membership row: %v", err)
		}
		if member.Role != "owner" {
			t.Errorf("expected owner role, got %q", member.Role)
		}
	})

	t.Run("IdempotentUpsert", func(t *testing.T) {
		fake := newDiscordFake()
		fake.guilds = []discord.Guild{{ID: "g1", Name: "Mine", Owner: true}}
		srv := fake.server(t)
		defer srv.Close()

		db := newTestDB(t)
		seedToken(t, db, "good-token", "refresh", time.Now().Add(time.Hour))
		svc := newService(t, db, srv.URL)

		if _, err := svc.SyncOwnedServers(context.Background(), "p1"); err != nil {
			t.Fatalf("first sync failed: %v", err)
		}

		// Rename before the second sync; the row must follow.
		fake.mu.Lock()
		fake.guilds[0].Name = "Renamed"
		fake.mu.Unlock()

		result, err := svc.SyncOwnedServers(context.Background(), "p1")
		if err != nil {
			t.Fatalf("second sync failed: %v", err)
		}

		var count int64
		db.Model(&models.Server{}).Count(&count)
		if count != 1 {
			t.Errorf("expected exactly one server row, got %d", count)
		}
		if len(result.Servers) != 1 || result.Servers[0].Name != "Renamed" {
			t.Errorf("expected renamed server, got %+v", result.Servers)
		}
	})

	t.Run("FallsBackToCachedOnOutage", func(t *testing.T) {
		fake := newDiscordFake()
		fake.guildsStatus = http.StatusInternalServerError
		srv := fake.server(t)
		defer srv.Close()

		db := newTestDB(t)
		seedToken(t, db, "good-token", "refresh", time.Now().Add(time.Hour))
		db.Create(&models.Server{ID: "g1", Name: "Cached", OwnerID: "p1"})
		svc := newService(t, db, srv.URL)

		result, err := svc.SyncOwnedServers(context.Background(), "p1")
		if err != nil {
			t.Fatalf("expected degraded success, got %v", err)
		}
		if len(result.Servers) != 1 || result.Servers[0].Name != "Cached" {
			t.Errorf("expected cached row, got %+v", result.Servers)
		}
		if result.Warning == "" {
			t.Error("expected a degradation warning")
		}
	})

	t.Run("NoTokenAndEmptyCacheRequiresReauth", func(t *testing.T) {
		fake := newDiscordFake()
		srv := fake.server(t)
		defer srv.Close()

		db := newTestDB(t)
		svc := newService(t, db, srv.URL)

		_, err := svc.SyncOwnedServers(context.Background(), "p1")
		if !errors.Is(err, ErrReauthRequired) {
			t.Fatalf("expected ErrReauthRequired, got %v", err)
		}
	})

	t.Run("NoTokenButCachedDataStillServes", func(t *testing.T) {
		fake := newDiscordFake()
		srv := fake.server(t)
		defer srv.Close()

		db := newTestDB(t)
		db.Create(&models.Server{ID: "g1", Name: "Cached", OwnerID: "p1"})
		svc := newService(t, db, srv.URL)

		result, err := svc.SyncOwnedServers(context.Background(), "p1")
		if err != nil {
			t.Fatalf("expected cached fallback, got %v", err)
		}
		if len(result.Servers) != 1 {
			t.Errorf("expected cached row, got %+v", result.Servers)
		}
		if result.Warning == "" {
			t.Error("expected a warning about the missing token")
		}
	})

	t.Run("MidSyncRefreshFailureEmptyCacheRequiresReauth", func(t *testing.T) {
		fake := newDiscordFake()
		// The probe accepts the token but the guild fetch rejects it, and
		// the refresh that follows is turned down too.
		fake.guildsStatus = http.StatusUnauthorized
		fake.refreshStatus = http.StatusBadRequest
		srv := fake.server(t)
		defer srv.Close()

		db := newTestDB(t)
		seedToken(t, db, "good-token", "refresh", time.Now().Add(time.Hour))
		svc := newService(t, db, srv.URL)

		_, err := svc.SyncOwnedServers(context.Background(), "p1")
		if !errors.Is(err, ErrReauthRequired) {
			t.Fatalf("expected ErrReauthRequired, got %v", err)
		}
	})

	t.Run("MidSyncRefreshFailureStillServesCache", func(t *testing.T) {
		fake := newDiscordFake()
		fake.guildsStatus = http.StatusUnauthorized
		fake.refreshStatus = http.StatusBadRequest
		srv := fake.server(t)
		defer srv.Close()

		db := newTestDB(t)
		seedToken(t, db, "good-token", "refresh", time.Now().Add(time.Hour))
		db.Create(&models.Server{ID: "g1", Name: "Cached", OwnerID: "p1"})
		svc := newService(t, db, srv.URL)

		result, err := svc.SyncOwnedServers(context.Background(), "p1")
		if err != nil {
			t.Fatalf("expected cached fallback, got %v", err)
		}
		if len(result.Servers) != 1 {
			t.Errorf("expected cached row, got %+v", result.Servers)
		}
		if result.Warning == "" {
			t.Error("expected a warning about the dead token")
		}
	})

	t.Run("RejectedTokenRefreshedBeforeGivingUp", func(t *testing.T) {
		fake := newDiscordFake()
		// Stored token is not in validTokens: the probe 401s even though
		// the local expiry claims it is fine.
		fake.guilds = []discord.Guild{{ID: "g1", Name: "Mine", Owner: true}}
		srv := fake.server(t)
		defer srv.Close()

		db := newTestDB(t)
		seedToken(t, db, "revoked-token", "refresh", time.Now().Add(time.Hour))
		svc := newService(t, db, srv.URL)

		result, err := svc.SyncOwnedServers(context.Background(), "p1")
		if err != nil {
			t.Fatalf("SyncOwnedServers returned error: %v", err)
		}
		fake.mu.Lock()
		refreshes := fake.refreshCalls
		fake.mu.Unlock()
		if refreshes != 1 {
			t.Errorf("expected one refresh before guild fetch, got %d", refreshes)
		}
		if result.Synced != 1 {
			t.Errorf("expected sync to proceed with refreshed token, got %+v", result)
		}
	})
}
