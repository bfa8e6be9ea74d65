package middleware

import (
	"net/http"
	"slices"

	"coursehub/i18n"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when the authenticated role is one of roles.
// It must run after JWTAuthUserMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, c.GetString(CtxRole)) {
			utils.JSONError(c, http.StatusForbidden, i18n.T(c.GetString(CtxLocale), i18n.MsgForbidden), "")
			return
		}
		c.Next()
	}
}
