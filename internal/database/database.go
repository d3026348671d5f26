package database

import (
	"log"

	"github.com/trioguard/trioguard-web/internal/config"
	"github.com/trioguard/trioguard-web/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.Profile{},
		&models.DiscordToken{},
		&models.Server{},
		&models.BotSettings{},
		&models.LoggingSettings{},
		&models.ServerMember{},
		&models.Role{},
		&models.UserRole{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
