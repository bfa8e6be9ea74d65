package handlers

import (
	"errors"
	"net/http"

	"coursehub/i18n"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves account, session and profile endpoints.
type UserHandler struct {
	UserService user.UserService
}

func (h *UserHandler) passwordError(c *gin.Context, err error) bool {
	var perr user.PasswordPolicyError
	if errors.As(err, &perr) {
		failWith(c, http.StatusBadRequest, i18n.MsgWeakPassword, perr.Reason)
		return true
	}
	return false
}

// RegisterHandler handles POST /api/auth/register.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req models.UserRegistrationRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.UserService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			fail(c, http.StatusConflict, i18n.MsgEmailTaken)
		case h.passwordError(c, err):
		default:
			internalError(c, "registration failed", err)
		}
		return
	}
	getLogger(c).Info("user registered", zap.String("userID", res.ID))
	c.JSON(http.StatusCreated, res)
}

// LoginHandler handles POST /api/auth/login.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.UserLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.UserService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, i18n.MsgInvalidCredentials)
			return
		}
		internalError(c, "login failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// LogoutHandler handles POST /api/auth/logout.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	if err := h.UserService.Logout(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		internalError(c, "logout failed", err)
		return
	}
	message(c, http.StatusOK, i18n.MsgLoggedOut)
}
