package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursehub/models"
	"coursehub/services/tasks"
	"coursehub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// AsynqReminderScheduler stores reminders as scheduled asynq tasks keyed by event id.
type AsynqReminderScheduler struct {
	Client    *asynq.Client
	Inspector *asynq.Inspector
	LeadTime  time.Duration
}

func NewAsynqReminderScheduler(opt asynq.RedisClientOpt) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		Client:    asynq.NewClient(opt),
		Inspector: asynq.NewInspector(opt),
		LeadTime:  tasks.ReminderLeadTime,
	}
}

func (s *AsynqReminderScheduler) Close() error {
	return errors.Join(s.Client.Close(), s.Inspector.Close())
}

// Schedule replaces any pending reminder for the event. Events starting within the
// lead time are reminded right away; events already started get none.
func (s *AsynqReminderScheduler) Schedule(ctx context.Context, event *models.Event) error {
	if err := s.Cancel(ctx, event.ID); err != nil {
		return err
	}
	now := time.Now()
	if !event.StartsAt.After(now) {
		return nil
	}
	fireAt := event.StartsAt.Add(-s.LeadTime)
	if fireAt.Before(now) {
		fireAt = now
	}

	task, opts, err := tasks.NewEventReminderTask(event.ID, fireAt)
	if err != nil {
		return err
	}
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			// The previous reminder is running right now and cannot be replaced.
			utils.GetLogger().Warn("reminder already in flight", zap.String("eventID", event.ID))
			return nil
		}
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	utils.GetLogger().Info("event reminder scheduled",
		zap.String("eventID", event.ID), zap.String("taskID", info.ID), zap.Time("fireAt", fireAt))
	return nil
}

func (s *AsynqReminderScheduler) Cancel(_ context.Context, eventID string) error {
	err := s.Inspector.DeleteTask(tasks.ReminderQueue, tasks.EventReminderTaskID(eventID))
	if err == nil || errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
		return nil
	}
	return fmt.Errorf("failed to cancel reminder: %w", err)
}
