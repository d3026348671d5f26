package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/trioguard/trioguard-web/internal/config"
	"github.com/trioguard/trioguard-web/internal/models"
)

func TestOAuthState(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, newTestDB(t), newTestClient("http://127.0.0.1:0"))

	t.Run("LoginIssuesRandomState", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/discord/login", nil)
		rr := httptest.NewRecorder()
		handler.HandleLogin(rr, req)

		if rr.Code != http.StatusTemporaryRedirect {
			t.Fatalf("expected redirect, got %v", rr.Code)
		}

		var stateCookie *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == StateCookieName {
				stateCookie = c
			}
		}
		if stateCookie == nil || stateCookie.Value == "" {
			t.Fatal("expected a state cookie")
		}
		if stateCookie.Value == "state" {
			t.Error("state must not be a fixed value")
		}

		loc, err := url.Parse(rr.Header().Get("Location"))
		if err != nil {
			t.Fatalf("bad redirect location: %v", err)
		}
		if got := loc.Query().Get("state"); got != stateCookie.Value {
			t.Errorf("redirect state %q does not match cookie %q", got, stateCookie.Value)
		}
	})

	t.Run("CallbackRejectsMismatchedState", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/discord/callback?code=abc&state=forged", nil)
		req.AddCookie(&http.Cookie{Name: StateCookieName, Value: "expected"})
		rr := httptest.NewRecorder()
		handler.HandleCallback(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for mismatched state, got %v", rr.Code)
		}
	})

	t.Run("CallbackRejectsMissingStateCookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/discord/callback?code=abc&state=whatever", nil)
		rr := httptest.NewRecorder()
		handler.HandleCallback(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected 400 without a state cookie, got %v", rr.Code)
		}
	})
}

func TestHandleMe(t *testing.T) {
	srv := fakeDiscord(t, http.StatusOK)
	defer srv.Close()

	db := newTestDB(t)
	profile := models.Profile{
		ID:        "p1",
		Username:  "testuser",
		AvatarURL: "https://cdn.discordapp.com/avatars/123456/abc.png",
		DiscordID: "123456",
	}
	db.Create(&profile)

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db, newTestClient(srv.URL))

	t.Run("Authenticated", func(t *testing.T) {
		token, _ := handler.GenerateToken(profile.ID)
		input := &MeInput{}
		input.Cookie = CookieName + "=" + token

		resp, err := handler.HandleMe(context.Background(), input)
		if err != nil {
			t.Fatalf("HandleMe returned error: %v", err)
		}
		if resp.Body.Username != profile.Username {
			t.Errorf("expected username %s, got %s", profile.Username, resp.Body.Username)
		}
		if resp.Body.DiscordID != profile.DiscordID {
			t.Errorf("expected discord id %s, got %s", profile.DiscordID, resp.Body.DiscordID)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		input := &MeInput{}
		_, err := handler.HandleMe(context.Background(), input)
		if err == nil {
			t.Fatal("expected error for unauthenticated request, got nil")
		}
	})
}
