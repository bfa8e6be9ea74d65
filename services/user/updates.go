package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UpdateProfile applies the non-nil fields of req.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error) {
	fields := bson.M{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		fields["name"] = name
	}
	if req.Bio != nil {
		fields["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = strings.TrimSpace(*req.AvatarURL)
	}
	if len(fields) > 0 {
		if err := s.Repo.UpdateSetDocument(ctx, userID, fields); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}
	return s.GetUserByID(ctx, userID)
}

func (s *DefaultUserService) UpdateFCMToken(ctx context.Context, userID, token string) error {
	if err := s.Repo.UpdateSetDocument(ctx, userID, bson.M{"fcm_token": strings.TrimSpace(token)}); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update FCM token: %w", err)
	}
	return nil
}

// ChangePassword checks the current password and stores the new hash. Other sessions stay valid.
func (s *DefaultUserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	userRec, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := VerifyPasswordComplexity(newPassword); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("ChangePassword: failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to update password")
	}
	if err := s.Repo.UpdateSetDocument(ctx, userID, bson.M{"password_hash": string(hashed)}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
