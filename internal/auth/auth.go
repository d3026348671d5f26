package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/trioguard/trioguard-web/internal/config"
	"github.com/trioguard/trioguard-web/internal/discord"
	"github.com/trioguard/trioguard-web/internal/models"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"

	SessionProvider = "discord"
	TokenDuration   = 24 * time.Hour
	CookieName      = "auth_token"
	StateCookieName = "oauth_state"
)

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
	discord     *discord.Client
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB, client *discord.Client) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:      db,
		cfg:     cfg,
		discord: client,
	}
}

// HandleLogin redirects into the Discord consent flow. With ?force=1 the
// consent screen is shown again even for an already-authorized app; the
// dashboard uses that as the escape hatch when a silent refresh is no longer
// possible.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	if r.URL.Query().Get("force") != "" {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "consent"))
	}

	// Random state, echoed back by Discord and checked in the callback.
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		MaxAge:   300,
		HttpOnly: true,
		Path:     "/",
	})

	url := h.oauthConfig.AuthCodeURL(state, opts...)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(StateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	// Get User Info
	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(h.discord.BaseURL + "/users/@me")
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&discordUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	profile, err := h.upsertProfile(discordUser.ID, discordUser.Username, discordUser.Avatar)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	// Persist the delegated token pair; guild sync needs it after the
	// browser session cookie alone is left.
	stored := models.DiscordToken{
		ProfileID:    profile.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if err := h.db.Save(&stored).Error; err != nil {
		log.Printf("Failed to store discord token for profile %s: %v", profile.ID, err)
		http.Error(w, "Failed to save token", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(profile.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    jwtToken,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	})

	http.Redirect(w, r, h.cfg.FrontendURL+"/dashboard", http.StatusTemporaryRedirect)
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) upsertProfile(discordID, username, avatar string) (*models.Profile, error) {
	var profile models.Profile
	err := h.db.Where(models.Profile{DiscordID: discordID}).
		Attrs(models.Profile{ID: uuid.NewString()}).
		FirstOrInit(&profile).Error
	if err != nil {
		return nil, err
	}

	profile.Username = username
	if avatar != "" {
		profile.AvatarURL = "https://cdn.discordapp.com/avatars/" + discordID + "/" + avatar + ".png"
	}

	if err := h.db.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (h *AuthHandler) GenerateToken(profileID string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      profileID,
		"provider": SessionProvider,
		"exp":      time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// AuthInput carries the session cookie into huma operations.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie"`
}

// Authorize resolves the profile id from the raw Cookie header. Returns a
// huma 401 error when the session is missing or invalid.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (string, error) {
	claims, err := h.parseSession(cookieHeader)
	if err != nil {
		return "", huma.Error401Unauthorized("Unauthorized: " + err.Error())
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}
	return sub, nil
}

type MeOutput struct {
	Body struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
		DiscordID string `json:"discord_id"`
	}
}

type MeInput struct {
	AuthInput
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeInput) (*MeOutput, error) {
	profileID, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := h.db.First(&profile, "id = ?", profileID).Error; err != nil {
		return nil, huma.Error404NotFound("Profile not found")
	}

	out := &MeOutput{}
	out.Body.ID = profile.ID
	out.Body.Username = profile.Username
	out.Body.AvatarURL = profile.AvatarURL
	out.Body.DiscordID = profile.DiscordID
	return out, nil
}
