package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursehub/database"
	"coursehub/services/notification"
	"coursehub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetCodeLength = 6

// RequestPasswordReset emails a single-use code. Unknown emails succeed silently.
func (s *DefaultUserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	userRec, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			utils.GetLogger().Info("password reset requested for unknown email")
			return nil
		}
		utils.GetLogger().Error("RequestPasswordReset: failed to fetch user", zap.Error(err))
		return fmt.Errorf("failed to reset password, please try again")
	}

	code, err := utils.GenerateSecureCode(resetCodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}
	if err := utils.StoreCode(ctx, s.CodeCache, utils.ResetCodePrefix+email, code, utils.ResetCodeTTL); err != nil {
		utils.GetLogger().Error("RequestPasswordReset: failed to cache code", zap.Error(err))
		return fmt.Errorf("failed to reset password, please try again")
	}

	if s.Notifier != nil {
		msg := notification.ResetCodeEmail(userRec, code, utils.ResetCodeTTL)
		if err := s.Notifier.SendEmail(ctx, msg); err != nil {
			utils.GetLogger().Error("RequestPasswordReset: failed to send email", zap.String("userID", userRec.ID), zap.Error(err))
			return fmt.Errorf("failed to send reset code, please try again")
		}
	}
	return nil
}

// ResetPassword consumes the code, stores the new password and revokes the current session.
func (s *DefaultUserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if err := VerifyPasswordComplexity(newPassword); err != nil {
		return err
	}

	if err := utils.ConsumeCode(ctx, s.CodeCache, utils.ResetCodePrefix+email, strings.ToUpper(strings.TrimSpace(code))); err != nil {
		if errors.Is(err, utils.ErrCodeNotFound) || errors.Is(err, utils.ErrCodeMismatch) ||
			errors.Is(err, utils.ErrCodeAttemptsExceeded) {
			return ErrInvalidResetCode
		}
		utils.GetLogger().Error("ResetPassword: code lookup failed", zap.Error(err))
		return fmt.Errorf("failed to reset password, please try again")
	}

	userRec, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("ResetPassword: failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to reset password, please try again")
	}
	if err := s.Repo.UpdateSetDocument(ctx, userRec.ID, bson.M{
		"password_hash": string(hashed),
		"token_hash":    "",
	}); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.dropSession(ctx, userRec.ID)
	return nil
}
