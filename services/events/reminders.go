package events

import (
	"context"
	"errors"
	"fmt"

	"coursehub/database"
	"coursehub/services/notification"
	"coursehub/utils"

	"go.uber.org/zap"
)

func (s *DefaultEventService) SendReminders(ctx context.Context, eventID string) error {
	logger := utils.GetLogger().With(zap.String("eventID", eventID))

	event, err := s.Repo.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			logger.Info("reminder for deleted event dropped")
			return nil
		}
		return fmt.Errorf("failed to load event: %w", err)
	}
	userIDs, err := s.Repo.ListRegistrantIDs(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load registrants: %w", err)
	}

	body := fmt.Sprintf("%s starts at %s UTC", event.Title, event.StartsAt.UTC().Format("15:04"))
	data := map[string]string{"type": "event_reminder", "eventId": event.ID}
	sent := 0
	for _, id := range userIDs {
		if err := s.Notifier.SendPush(ctx, id, "Starting soon", body, data); err != nil {
			logger.Warn("reminder push failed", zap.String("userID", id), zap.Error(err))
		}
		u, err := s.Users.GetByID(ctx, id)
		if err != nil {
			logger.Warn("reminder email skipped", zap.String("userID", id), zap.Error(err))
			continue
		}
		if err := s.Notifier.SendEmail(ctx, notification.EventReminderEmail(u, event)); err != nil {
			logger.Warn("reminder email failed", zap.String("userID", id), zap.Error(err))
			continue
		}
		sent++
	}
	logger.Info("event reminders sent", zap.Int("registrants", len(userIDs)), zap.Int("emails", sent))
	return nil
}
