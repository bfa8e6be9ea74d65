package userRepo

import (
	"context"

	"coursehub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record. A taken email yields database.ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID, including credential fields.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by normalized email, including credential fields.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDWithProjection retrieves a user by ID with an optional projection.
	GetByIDWithProjection(ctx context.Context, id string, projection bson.M) (*models.User, error)
	// UpdateSetDocument applies a $set of the given fields.
	UpdateSetDocument(ctx context.Context, id string, fields bson.M) error
	// List pages through users, newest first, without credential fields.
	List(ctx context.Context, skip, limit int64) ([]models.User, int64, error)
	// CountByRole counts users; an empty role counts everyone.
	CountByRole(ctx context.Context, role string) (int64, error)
}
