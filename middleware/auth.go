package middleware

import (
	"coursehub/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by the middleware chain.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
	CtxLocale = "locale"
	CtxLogger = "logger"
)

// CurrentUserID returns the authenticated user, or "" on public routes.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}

// CurrentActor bundles the authenticated user and role for service calls.
func CurrentActor(c *gin.Context) models.Actor {
	return models.Actor{UserID: c.GetString(CtxUserID), Role: c.GetString(CtxRole)}
}
