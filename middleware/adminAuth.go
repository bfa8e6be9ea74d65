package middleware

import (
	"coursehub/models"

	"github.com/gin-gonic/gin"
)

func JWTAuthAdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
