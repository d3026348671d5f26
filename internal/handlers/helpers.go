package handlers

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/trioguard/trioguard-web/internal/models"
	"gorm.io/gorm"
)

// ownedServer loads a server and verifies the caller owns it. Hiding other
// users' servers behind 404 avoids leaking which guild ids exist.
func ownedServer(db *gorm.DB, serverID, profileID string) (*models.Server, error) {
	var server models.Server
	err := db.First(&server, "id = ?", serverID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Server not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load server")
	}
	if server.OwnerID != profileID {
		return nil, huma.Error404NotFound("Server not found")
	}
	return &server, nil
}
