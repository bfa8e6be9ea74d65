package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser validates the request, persists a student account and signs the user in.
func (s *DefaultUserService) RegisterUser(ctx context.Context, req models.UserRegistrationRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if err := VerifyPasswordComplexity(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		utils.GetLogger().Error("RegisterUser: failed to check for existing user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("RegisterUser: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	role := models.RoleStudent
	if s.AdminEmail != "" && email == normalizeEmail(s.AdminEmail) {
		role = models.RoleAdmin
	}

	u := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, utils.TokenTTL())
	if err != nil {
		utils.GetLogger().Error("RegisterUser: failed to generate auth token", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}
	u.TokenHash = utils.HashToken(token)

	if err := s.Repo.Create(ctx, u); err != nil {
		// The unique email index catches a concurrent registration.
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		utils.GetLogger().Error("RegisterUser: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("registration failed, please try again")
	}

	utils.GetLogger().Info("user registered", zap.String("userID", u.ID), zap.String("role", u.Role))
	return &AuthResponse{ID: u.ID, Token: token, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

// GetUserByID returns the user without credential fields.
func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByIDWithProjection(ctx, userID, bson.M{"password_hash": 0, "token_hash": 0})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
