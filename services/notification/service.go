package notification

import (
	"context"
	"errors"
	"fmt"

	"coursehub/database"
	userRepo "coursehub/database/repository/user"
	"coursehub/models"
	"coursehub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Users  userRepo.UserRepository
	Pusher Pusher
	Mailer Mailer
}

func NewDefaultNotificationService(users userRepo.UserRepository, pusher Pusher, mailer Mailer) (*DefaultNotificationService, error) {
	if users == nil {
		return nil, fmt.Errorf("notification service initialization error: user repository is nil")
	}
	if pusher == nil {
		pusher = NoopPusher{}
	}
	if mailer == nil {
		mailer = NoopMailer{}
	}
	return &DefaultNotificationService{Users: users, Pusher: pusher, Mailer: mailer}, nil
}

func (s *DefaultNotificationService) SendPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	u, err := s.Users.GetByIDWithProjection(ctx, userID, bson.M{"id": 1, "fcm_token": 1})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("SendPush: could not find user %s: %w", userID, err)
	}
	if u.FCMToken == "" {
		return nil
	}
	if data == nil {
		data = map[string]string{}
	}
	if err := s.Pusher.Push(ctx, u.FCMToken, title, body, data); err != nil {
		return fmt.Errorf("SendPush: %w", err)
	}
	utils.GetLogger().Debug("push sent", zap.String("userID", userID), zap.String("title", title))
	return nil
}

func (s *DefaultNotificationService) SendEmail(ctx context.Context, msg models.Email) error {
	if msg.ToEmail == "" {
		return fmt.Errorf("SendEmail: missing recipient")
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("SendEmail: %w", err)
	}
	return nil
}
