package handlers

import (
	"net/http"
	"strconv"

	"coursehub/i18n"
	"coursehub/middleware"
	"coursehub/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func locale(c *gin.Context) string {
	return c.GetString(middleware.CtxLocale)
}

// fail answers with a localized message for key.
func fail(c *gin.Context, status int, key string) {
	utils.JSONError(c, status, i18n.T(locale(c), key), "")
}

// failWith is fail with a details line.
func failWith(c *gin.Context, status int, key, details string) {
	utils.JSONError(c, status, i18n.T(locale(c), key), details)
}

func internalError(c *gin.Context, msg string, err error) {
	getLogger(c).Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{Message: i18n.T(locale(c), i18n.MsgInternal)})
}

// bindJSON decodes and validates the body into req. It writes the error response and returns false on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		failWith(c, http.StatusBadRequest, i18n.MsgInvalidRequest, err.Error())
		return false
	}
	if err := i18n.Validate(req); err != nil {
		if fields := i18n.ValidationErrors(locale(c), err); fields != nil {
			utils.JSONValidationError(c, i18n.T(locale(c), i18n.MsgValidationFailed), fields)
			return false
		}
		failWith(c, http.StatusBadRequest, i18n.MsgInvalidRequest, err.Error())
		return false
	}
	return true
}

// pageParams reads ?page= and ?pageSize=; services apply defaults and bounds.
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("pageSize"))
	return page, size
}

func message(c *gin.Context, status int, key string) {
	c.JSON(status, gin.H{"message": i18n.T(locale(c), key)})
}
