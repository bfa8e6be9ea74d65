package user

import (
	"context"
	"errors"
	"fmt"

	"coursehub/database"
	"coursehub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthenticateUser verifies credentials, rotates the stored token hash and returns a fresh token.
// Issuing a new token revokes the previous one.
func (s *DefaultUserService) AuthenticateUser(ctx context.Context, email, password string) (*AuthResponse, error) {
	userRec, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		utils.GetLogger().Error("AuthenticateUser: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(userRec.ID, userRec.Email, userRec.Role, utils.TokenTTL())
	if err != nil {
		utils.GetLogger().Error("AuthenticateUser: failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	if err := s.Repo.UpdateSetDocument(ctx, userRec.ID, bson.M{"token_hash": utils.HashToken(token)}); err != nil {
		utils.GetLogger().Error("AuthenticateUser: failed to store token hash", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	s.dropSession(ctx, userRec.ID)

	return &AuthResponse{
		ID:    userRec.ID,
		Token: token,
		Name:  userRec.Name,
		Email: userRec.Email,
		Role:  userRec.Role,
	}, nil
}

// Logout revokes the current token.
func (s *DefaultUserService) Logout(ctx context.Context, userID string) error {
	if err := s.Repo.UpdateSetDocument(ctx, userID, bson.M{"token_hash": ""}); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.dropSession(ctx, userID)
	return nil
}
