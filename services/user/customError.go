package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetCode   = errors.New("reset code is invalid or expired")
	ErrSelfDemotion       = errors.New("an admin cannot remove their own admin role")
	ErrInvalidRole        = errors.New("unknown role")
)

// PasswordPolicyError reports which complexity rule a password failed.
type PasswordPolicyError struct {
	Reason string
}

func (e PasswordPolicyError) Error() string {
	return e.Reason
}
