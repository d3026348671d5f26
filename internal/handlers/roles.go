package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/trioguard/trioguard-web/internal/auth"
	"github.com/trioguard/trioguard-web/internal/models"
	"gorm.io/gorm"
)

type RoleHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewRoleHandler(db *gorm.DB, authHandler *auth.AuthHandler) *RoleHandler {
	return &RoleHandler{db: db, authHandler: authHandler}
}

type ListRolesInput struct {
	auth.AuthInput
}

type ListRolesOutput struct {
	Body []models.Role
}

func (h *RoleHandler) HandleList(ctx context.Context, input *ListRolesInput) (*ListRolesOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var roles []models.Role
	if err := h.db.Order("name").Find(&roles).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list roles")
	}
	return &ListRolesOutput{Body: roles}, nil
}

type ListUserRolesInput struct {
	auth.AuthInput
}

type ListUserRolesOutput struct {
	Body []models.UserRole
}

// HandleListMine returns the caller's dashboard role assignments.
func (h *RoleHandler) HandleListMine(ctx context.Context, input *ListUserRolesInput) (*ListUserRolesOutput, error) {
	profileID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var assignments []models.UserRole
	if err := h.db.Where("user_id = ?", profileID).Find(&assignments).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list role assignments")
	}
	return &ListUserRolesOutput{Body: assignments}, nil
}
