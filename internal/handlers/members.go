package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/trioguard/trioguard-web/internal/auth"
	"github.com/trioguard/trioguard-web/internal/models"
	"gorm.io/gorm"
)

type MemberHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewMemberHandler(db *gorm.DB, authHandler *auth.AuthHandler) *MemberHandler {
	return &MemberHandler{db: db, authHandler: authHandler}
}

type ListMembersInput struct {
	auth.AuthInput
	ServerID string `path:"serverId" doc:"Discord guild id"`
}

type ListMembersOutput struct {
	Body []models.ServerMember
}

func (h *MemberHandler) HandleList(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	profileID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if _, err := ownedServer(h.db, input.ServerID, profileID); err != nil {
		return nil, err
	}

	var members []models.ServerMember
	if err := h.db.Where("server_id = ?", input.ServerID).Order("created_at").Find(&members).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list members")
	}
	return &ListMembersOutput{Body: members}, nil
}
