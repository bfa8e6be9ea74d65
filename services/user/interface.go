package user

import (
	"context"

	userRepo "coursehub/database/repository/user"
	"coursehub/models"
	"coursehub/services/notification"

	"github.com/go-redis/redis/v8"
)

type UserService interface {
	// Registration and sessions
	RegisterUser(ctx context.Context, req models.UserRegistrationRequest) (*AuthResponse, error)
	AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error)
	Logout(ctx context.Context, userID string) error

	// Profile
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error)
	UpdateFCMToken(ctx context.Context, userID, token string) error
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error

	// Password reset
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error

	// Admin
	ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error)
	SetRole(ctx context.Context, actorID, userID, role string) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo      userRepo.UserRepository
	AuthCache *redis.Client
	CodeCache *redis.Client
	Notifier  notification.NotificationService
	// AdminEmail, when set, is granted the admin role at registration.
	AdminEmail string
}

// AuthResponse contains the user's ID, token, and profile basics.
type AuthResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type UserPage struct {
	Users    []models.User `json:"users"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}
