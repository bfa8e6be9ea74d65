package notification

import (
	"context"
	"fmt"

	"coursehub/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMPusher sends through the Firebase Cloud Messaging client.
type FCMPusher struct {
	Client *messaging.Client
}

func (p FCMPusher) Push(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
	if _, err := p.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send FCM message: %w", err)
	}
	return nil
}

// NoopPusher logs instead of pushing. Used when Firebase is not configured.
type NoopPusher struct{}

func (NoopPusher) Push(_ context.Context, _, title, _ string, _ map[string]string) error {
	utils.GetLogger().Debug("push disabled, dropping message", zap.String("title", title))
	return nil
}
