package user

import (
	"context"
	"errors"
	"fmt"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const maxUserPageSize = 100

// ListUsers pages through all users for the admin dashboard.
func (s *DefaultUserService) ListUsers(ctx context.Context, page, pageSize int) (*UserPage, error) {
	skip, limit := database.Paging(page, pageSize, maxUserPageSize)
	users, total, err := s.Repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	if page < 1 {
		page = 1
	}
	return &UserPage{Users: users, Total: total, Page: page, PageSize: int(limit)}, nil
}

// SetRole promotes or demotes userID. The acting admin cannot demote themselves.
func (s *DefaultUserService) SetRole(ctx context.Context, actorID, userID, role string) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleStudent {
		return nil, ErrInvalidRole
	}
	if actorID == userID && role != models.RoleAdmin {
		return nil, ErrSelfDemotion
	}
	if err := s.Repo.UpdateSetDocument(ctx, userID, bson.M{"role": role}); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	// The cached role must not outlive the change.
	s.dropSession(ctx, userID)

	utils.GetLogger().Info("role changed",
		zap.String("actorID", actorID),
		zap.String("userID", userID),
		zap.String("role", role),
	)
	return s.GetUserByID(ctx, userID)
}
