package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/trioguard/trioguard-web/internal/auth"
	"github.com/trioguard/trioguard-web/internal/config"
	"golang.org/x/time/rate"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth     *auth.AuthHandler
	Servers  *ServerHandler
	Settings *SettingsHandler
	Logging  *LoggingHandler
	Members  *MemberHandler
	Roles    *RoleHandler
	Site     *SiteHandler
}

func RegisterRoutes(r *chi.Mux, cfg *config.Config, h Handlers) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if cfg.EnableCORS {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   []string{cfg.FrontendURL},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}).Handler)
	}

	// Initialize Huma API
	apiConfig := huma.DefaultConfig("TrioGuard API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}
	api := humachi.New(r, apiConfig)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes (plain chi: they redirect and set cookies)
	loginLimiter := auth.NewLoginRateLimiter(rate.Limit(1), 5)
	r.Group(func(r chi.Router) {
		r.Use(loginLimiter.Middleware)
		r.Get("/auth/discord/login", h.Auth.HandleLogin)
		r.Get("/auth/discord/callback", h.Auth.HandleCallback)
	})
	r.Post("/auth/logout", h.Auth.HandleLogout)

	// Marketing content
	huma.Get(api, "/site/features", h.Site.HandleFeatures)
	huma.Get(api, "/site/faq", h.Site.HandleFAQ)
	huma.Get(api, "/site/changelog", h.Site.HandleChangelog)
	huma.Get(api, "/site/how-it-works", h.Site.HandleHowItWorks)
	huma.Get(api, "/site/invite", h.Site.HandleInvite)

	// Dashboard routes. The group middleware slides the session cookie
	// forward; Authorize inside each operation does the rejecting.
	cookieAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}
	huma.Get(api, "/auth/status", h.Auth.HandleStatus)

	dashboard := huma.NewGroup(api)
	dashboard.UseMiddleware(h.Auth.SessionRenewal)
	huma.Get(dashboard, "/me", h.Auth.HandleMe, cookieAuth)
	huma.Get(dashboard, "/servers", h.Servers.HandleList, cookieAuth)
	huma.Get(dashboard, "/servers/{serverId}/settings", h.Settings.HandleGet, cookieAuth)
	huma.Patch(dashboard, "/servers/{serverId}/settings", h.Settings.HandleUpdate, cookieAuth)
	huma.Get(dashboard, "/servers/{serverId}/logging", h.Logging.HandleGet, cookieAuth)
	huma.Patch(dashboard, "/servers/{serverId}/logging", h.Logging.HandleUpdate, cookieAuth)
	huma.Get(dashboard, "/servers/{serverId}/members", h.Members.HandleList, cookieAuth)
	huma.Get(dashboard, "/roles", h.Roles.HandleList, cookieAuth)
	huma.Get(dashboard, "/me/roles", h.Roles.HandleListMine, cookieAuth)
}
