package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/uniportal/portal-api/internal/middleware"
	"github.com/uniportal/portal-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// actorID resolves the acting user for audit attribution, nil when the
// route ran without authentication.
func actorID(c *gin.Context) *string {
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		return nil
	}
	id := claims.UserID
	return &id
}
