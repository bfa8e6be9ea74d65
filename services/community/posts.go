package community

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"coursehub/database"
	communityRepo "coursehub/database/repository/community"
	"coursehub/models"
	"coursehub/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func checkBody(body string, maxLen int) (string, error) {
	body = strings.TrimSpace(body)
	n := utf8.RuneCountInString(body)
	if n == 0 || n > maxLen {
		return "", &BodyLengthError{Max: maxLen}
	}
	return body, nil
}

func (s *DefaultCommunityService) authorName(ctx context.Context, userID string) string {
	u, err := s.Users.GetByIDWithProjection(ctx, userID, bson.M{"id": 1, "name": 1})
	if err != nil {
		return ""
	}
	return u.Name
}

func (s *DefaultCommunityService) CreatePost(ctx context.Context, actor models.Actor, req models.PostRequest) (*models.Post, error) {
	body, err := checkBody(req.Body, MaxPostLength)
	if err != nil {
		return nil, err
	}
	if req.FileID != "" {
		if _, err := s.Files.Get(ctx, req.FileID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, ErrFileNotFound
			}
			return nil, err
		}
	}

	post := &models.Post{
		ID:         uuid.New().String(),
		AuthorID:   actor.UserID,
		AuthorName: s.authorName(ctx, actor.UserID),
		Body:       body,
		FileID:     req.FileID,
	}
	if err := s.Repo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	s.invalidateFeed(ctx)
	return post, nil
}

func (s *DefaultCommunityService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.Repo.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *DefaultCommunityService) DeletePost(ctx context.Context, actor models.Actor, postID string) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.Repo.DeletePost(ctx, postID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if post.AuthorID != actor.UserID {
		utils.GetLogger().Info("post removed by moderator",
			zap.String("postID", postID), zap.String("adminID", actor.UserID))
	}
	s.invalidateFeed(ctx)
	return nil
}

func (s *DefaultCommunityService) AddComment(ctx context.Context, actor models.Actor, postID string, req models.CommentRequest) (*models.Comment, error) {
	body, err := checkBody(req.Body, MaxCommentLength)
	if err != nil {
		return nil, err
	}
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:         uuid.New().String(),
		PostID:     postID,
		AuthorID:   actor.UserID,
		AuthorName: s.authorName(ctx, actor.UserID),
		Body:       body,
	}
	if err := s.Repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	if _, err := s.Repo.IncCounter(ctx, postID, communityRepo.CounterComments, 1); err != nil {
		utils.GetLogger().Warn("comment counter not updated", zap.String("postID", postID), zap.Error(err))
	}
	s.invalidateFeed(ctx)

	if post.AuthorID != actor.UserID && s.Notifier != nil {
		go s.notifyAuthor(post.AuthorID, comment)
	}
	return comment, nil
}

func (s *DefaultCommunityService) notifyAuthor(authorID string, c *models.Comment) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	name := c.AuthorName
	if name == "" {
		name = "Someone"
	}
	data := map[string]string{"type": "comment", "postId": c.PostID, "commentId": c.ID}
	if err := s.Notifier.SendPush(ctx, authorID, "New comment", name+" commented on your post", data); err != nil {
		utils.GetLogger().Warn("comment push failed", zap.String("postID", c.PostID), zap.Error(err))
	}
}

func (s *DefaultCommunityService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.Repo.ListComments(ctx, postID)
}

func (s *DefaultCommunityService) DeleteComment(ctx context.Context, actor models.Actor, commentID string) error {
	comment, err := s.Repo.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if comment.AuthorID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := s.Repo.DeleteComment(ctx, commentID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if _, err := s.Repo.IncCounter(ctx, comment.PostID, communityRepo.CounterComments, -1); err != nil && !errors.Is(err, database.ErrNotFound) {
		utils.GetLogger().Warn("comment counter not updated", zap.String("postID", comment.PostID), zap.Error(err))
	}
	s.invalidateFeed(ctx)
	return nil
}

// ToggleLike likes the post, or removes the like when one exists.
func (s *DefaultCommunityService) ToggleLike(ctx context.Context, actor models.Actor, postID string) (*models.LikeResult, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	liked := true
	delta := 1
	err := s.Repo.InsertLike(ctx, &models.Like{PostID: postID, UserID: actor.UserID, CreatedAt: time.Now()})
	if errors.Is(err, database.ErrDuplicate) {
		removed, derr := s.Repo.DeleteLike(ctx, postID, actor.UserID)
		if derr != nil {
			return nil, derr
		}
		liked = false
		delta = 0
		if removed {
			delta = -1
		}
	} else if err != nil {
		return nil, err
	}

	count, err := s.Repo.IncCounter(ctx, postID, communityRepo.CounterLikes, delta)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	s.invalidateFeed(ctx)
	return &models.LikeResult{Liked: liked, LikeCount: count}, nil
}
