package community

import (
	"context"
	"errors"
	"strconv"

	communityRepo "coursehub/database/repository/community"
	fileRepo "coursehub/database/repository/file"
	userRepo "coursehub/database/repository/user"
	"coursehub/models"
	"coursehub/services/notification"

	"github.com/go-redis/redis/v8"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrFileNotFound    = errors.New("attached file not found")
	ErrForbidden       = errors.New("only the author or an admin can do this")
)

// BodyLengthError reports a post or comment body outside its allowed length.
type BodyLengthError struct {
	Max int
}

func (e *BodyLengthError) Error() string {
	return "body must be between 1 and " + strconv.Itoa(e.Max) + " characters"
}

const (
	MaxPostLength    = 5000
	MaxCommentLength = 2000
	DefaultPageSize  = 20
	MaxPageSize      = 50
)

type CommunityService interface {
	CreatePost(ctx context.Context, actor models.Actor, req models.PostRequest) (*models.Post, error)
	ListFeed(ctx context.Context, page, pageSize int) (*models.FeedPage, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	DeletePost(ctx context.Context, actor models.Actor, postID string) error

	AddComment(ctx context.Context, actor models.Actor, postID string, req models.CommentRequest) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, actor models.Actor, commentID string) error

	ToggleLike(ctx context.Context, actor models.Actor, postID string) (*models.LikeResult, error)
}

type DefaultCommunityService struct {
	Repo     communityRepo.CommunityRepository
	Users    userRepo.UserRepository
	Files    fileRepo.FileRepository
	Cache    *redis.Client
	Notifier notification.NotificationService
}
