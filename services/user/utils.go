package user

import (
	"context"
	"regexp"
	"strings"

	"coursehub/utils"

	"go.uber.org/zap"
)

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	numberRe = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[\W_]`)
)

// VerifyPasswordComplexity checks that the password meets complexity requirements.
func VerifyPasswordComplexity(pw string) error {
	switch {
	case len(pw) < 8:
		return PasswordPolicyError{Reason: "password must be at least 8 characters long"}
	case !upperRe.MatchString(pw):
		return PasswordPolicyError{Reason: "password must include at least one uppercase letter"}
	case !lowerRe.MatchString(pw):
		return PasswordPolicyError{Reason: "password must include at least one lowercase letter"}
	case !numberRe.MatchString(pw):
		return PasswordPolicyError{Reason: "password must include at least one number"}
	case !symbolRe.MatchString(pw):
		return PasswordPolicyError{Reason: "password must include at least one symbol"}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dropSession forgets the cached token hash so revocations take effect on the next request.
func (s *DefaultUserService) dropSession(ctx context.Context, userID string) {
	if err := utils.DeleteAuthCacheEntry(ctx, s.AuthCache, userID); err != nil {
		utils.GetLogger().Error("failed to clear auth cache", zap.String("userID", userID), zap.Error(err))
	}
}
