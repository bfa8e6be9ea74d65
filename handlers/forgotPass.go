package handlers

import (
	"errors"
	"net/http"

	"coursehub/i18n"
	"coursehub/models"
	"coursehub/services/user"

	"github.com/gin-gonic/gin"
)

// ForgotPasswordHandler handles POST /api/auth/forgot-password. The answer never reveals whether the account exists.
func (h *UserHandler) ForgotPasswordHandler(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserService.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		internalError(c, "password reset request failed", err)
		return
	}
	message(c, http.StatusOK, i18n.MsgResetCodeSent)
}

// ResetPasswordHandler handles POST /api/auth/reset-password.
func (h *UserHandler) ResetPasswordHandler(c *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.UserService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword)
	switch {
	case err == nil:
		message(c, http.StatusOK, i18n.MsgPasswordUpdated)
	case errors.Is(err, user.ErrInvalidResetCode):
		fail(c, http.StatusBadRequest, i18n.MsgInvalidResetCode)
	case h.passwordError(c, err):
	default:
		internalError(c, "password reset failed", err)
	}
}
