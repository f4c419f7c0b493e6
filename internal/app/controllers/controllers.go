package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/thankiuday/dreamlink/internal/app/models"
)

// currentUserID reads the authenticated user id set by the JWT middleware.
func currentUserID(ctx *gin.Context) (int64, bool) {
	value, exists := ctx.Get("userID")
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

// currentRole reads the authenticated user's role set by the JWT middleware.
func currentRole(ctx *gin.Context) models.RoleType {
	value, exists := ctx.Get("role")
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return models.RoleType(role)
}
