package models

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a platform account (the profile row).
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	AvatarURL    string    `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	Bio          string    `bson:"bio,omitempty" json:"bio,omitempty"`
	FCMToken     string    `bson:"fcm_token,omitempty" json:"-"`
	TokenHash    string    `bson:"token_hash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

type UserRegistrationRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserUpdateRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2,max=80"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type RoleChangeRequest struct {
	Role string `json:"role" validate:"required,oneof=student admin"`
}

type FCMTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
