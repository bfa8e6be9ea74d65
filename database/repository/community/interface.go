package communityRepo

import (
	"context"

	"coursehub/models"
)

// CommunityRepository stores posts, comments and likes.
type CommunityRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	// ListPosts returns posts newest first.
	ListPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	// DeletePost removes a post with its comments and likes.
	DeletePost(ctx context.Context, id string) error
	// IncCounter adds delta to like_count or comment_count and returns the new value.
	IncCounter(ctx context.Context, postID, field string, delta int) (int, error)
	CountPosts(ctx context.Context) (int64, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	// ListComments returns the comments of a post oldest first.
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)

	// InsertLike fails with database.ErrDuplicate when the user already liked the post.
	InsertLike(ctx context.Context, like *models.Like) error
	// DeleteLike reports whether a like was removed.
	DeleteLike(ctx context.Context, postID, userID string) (bool, error)
}

const (
	CounterLikes    = "like_count"
	CounterComments = "comment_count"
)
