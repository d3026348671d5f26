package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/trioguard/trioguard-web/internal/auth"
	"github.com/trioguard/trioguard-web/internal/config"
	"github.com/trioguard/trioguard-web/internal/database"
	"github.com/trioguard/trioguard-web/internal/discord"
	"github.com/trioguard/trioguard-web/internal/guilds"
	"github.com/trioguard/trioguard-web/internal/handlers"
	"github.com/trioguard/trioguard-web/internal/models"
	"github.com/trioguard/trioguard-web/internal/notifier"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Discord REST client and bot session
	discordClient := discord.NewClient(cfg.DiscordClientID, cfg.DiscordClientSecret)

	var botSession *discordgo.Session
	if cfg.DiscordBotToken != "" {
		var err error
		botSession, err = discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord bot session not initialized: %v", err)
		}
	}

	var settingsNotifier notifier.Notifier
	if botSession != nil {
		settingsNotifier = notifier.NewDiscordNotifier(botSession, func(serverID string) string {
			var settings models.BotSettings
			if err := db.First(&settings, "server_id = ?", serverID).Error; err != nil {
				return ""
			}
			return settings.LogChannel
		})
	}

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db, discordClient)
	tokenManager := auth.NewTokenManager(db, discordClient)
	syncService := guilds.NewService(db, discordClient, tokenManager)

	h := handlers.Handlers{
		Auth:     authHandler,
		Servers:  handlers.NewServerHandler(syncService, authHandler),
		Settings: handlers.NewSettingsHandler(db, settingsNotifier, authHandler),
		Logging:  handlers.NewLoggingHandler(db, authHandler),
		Members:  handlers.NewMemberHandler(db, authHandler),
		Roles:    handlers.NewRoleHandler(db, authHandler),
		Site:     handlers.NewSiteHandler(cfg),
	}

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, cfg, h)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
