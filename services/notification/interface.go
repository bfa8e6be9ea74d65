package notification

import (
	"context"

	"coursehub/models"
)

// NotificationService delivers push notifications and transactional email.
type NotificationService interface {
	// SendPush looks up the user's FCM token and pushes. Users without a token are skipped.
	SendPush(ctx context.Context, userID, title, body string, data map[string]string) error
	SendEmail(ctx context.Context, msg models.Email) error
}

// Pusher delivers a push message to a single device token.
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, msg models.Email) error
}
