package handler

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	infraRepo "github.com/sangkips/invex-billing/internal/infrastructure/repository"
	"github.com/sangkips/invex-billing/internal/presentation/http/dto/response"
	"github.com/sangkips/invex-billing/pkg/utils"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	return c.GetString("user_email")
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	return c.GetStringSlice("user_roles")
}

// GetUserPermissions extracts the user permissions from the Gin context
func GetUserPermissions(c *gin.Context) []string {
	return c.GetStringSlice("user_permissions")
}

// HasPermission checks the permissions carried by the access token
func HasPermission(c *gin.Context, permission string) bool {
	return slices.Contains(GetUserPermissions(c), permission)
}

// CanViewAllBills reports whether the caller may read every user's bills
func CanViewAllBills(c *gin.Context) bool {
	return HasPermission(c, entity.PermViewAllBills)
}

// requireUser writes 401 and returns false when no user is authenticated
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// ownerContext scopes bill reads to the caller, or to everyone for users
// allowed to view all bills
func ownerContext(c *gin.Context, userID uuid.UUID) context.Context {
	ctx := infraRepo.WithOwner(c.Request.Context(), userID)
	if CanViewAllBills(c) {
		ctx = infraRepo.WithSkipOwnerScope(ctx, true)
	}
	return ctx
}

// paramUUID parses a UUID path parameter, writing 400 on failure
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
