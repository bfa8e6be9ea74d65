package handlers

import (
	"errors"
	"net/http"

	"coursehub/i18n"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services/user"

	"github.com/gin-gonic/gin"
)

// GetProfileHandler handles GET /api/me.
func (h *UserHandler) GetProfileHandler(c *gin.Context) {
	usr, err := h.UserService.GetUserByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			fail(c, http.StatusNotFound, i18n.MsgNotFound)
			return
		}
		internalError(c, "failed to load profile", err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateProfileHandler handles PATCH /api/me.
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	var req models.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	usr, err := h.UserService.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			fail(c, http.StatusNotFound, i18n.MsgNotFound)
			return
		}
		internalError(c, "failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, usr)
}

// ChangePasswordHandler handles PUT /api/me/password.
func (h *UserHandler) ChangePasswordHandler(c *gin.Context) {
	var req models.PasswordChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.UserService.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		message(c, http.StatusOK, i18n.MsgPasswordUpdated)
	case errors.Is(err, user.ErrInvalidCredentials):
		fail(c, http.StatusBadRequest, i18n.MsgInvalidCredentials)
	case h.passwordError(c, err):
	default:
		internalError(c, "failed to change password", err)
	}
}

// UpdateFCMTokenHandler handles PUT /api/me/fcm-token.
func (h *UserHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req models.FCMTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.UserService.UpdateFCMToken(c.Request.Context(), middleware.CurrentUserID(c), req.Token); err != nil {
		internalError(c, "failed to store push token", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsersHandler handles GET /api/admin/users.
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.UserService.ListUsers(c.Request.Context(), page, size)
	if err != nil {
		internalError(c, "failed to list users", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SetRoleHandler handles PUT /api/admin/users/:id/role.
func (h *UserHandler) SetRoleHandler(c *gin.Context) {
	var req models.RoleChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	usr, err := h.UserService.SetRole(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Role)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, usr)
	case errors.Is(err, user.ErrUserNotFound):
		fail(c, http.StatusNotFound, i18n.MsgNotFound)
	case errors.Is(err, user.ErrSelfDemotion):
		fail(c, http.StatusConflict, i18n.MsgSelfDemotion)
	case errors.Is(err, user.ErrInvalidRole):
		fail(c, http.StatusBadRequest, i18n.MsgInvalidRequest)
	default:
		internalError(c, "failed to change role", err)
	}
}
