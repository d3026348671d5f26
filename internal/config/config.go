package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string `mapstructure:"PORT"`
	DatabasePath        string `mapstructure:"DATABASE_PATH"`
	DiscordClientID     string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL  string `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordBotToken     string `mapstructure:"DISCORD_BOT_TOKEN"`
	JWTSecret           string `mapstructure:"JWT_SECRET"`
	FrontendURL         string `mapstructure:"FRONTEND_URL"`
	InvitePermissions   string `mapstructure:"INVITE_PERMISSIONS"`
	EnableCORS          bool   `mapstructure:"ENABLE_CORS"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "trioguard.db")
	viper.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000")
	viper.SetDefault("INVITE_PERMISSIONS", "8")

	viper.BindEnv("DISCORD_CLIENT_ID")
	viper.BindEnv("DISCORD_CLIENT_SECRET")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("FRONTEND_URL")
	viper.BindEnv("INVITE_PERMISSIONS")
	viper.BindEnv("ENABLE_CORS")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// InviteURL builds the static bot invite link shown on the marketing pages
// and in the dashboard empty state.
func (c *Config) InviteURL() string {
	return "https://discord.com/oauth2/authorize?client_id=" + c.DiscordClientID +
		"&permissions=" + c.InvitePermissions +
		"&integration_type=0&scope=bot+applications.commands"
}
