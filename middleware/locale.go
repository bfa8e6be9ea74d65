package middleware

import (
	"coursehub/i18n"

	"github.com/gin-gonic/gin"
)

// LocaleMiddleware resolves the response language from ?lang= or Accept-Language.
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}
		c.Set(CtxLocale, i18n.Normalize(lang))
		c.Next()
	}
}
