package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursehub/config"
	"coursehub/services/events"
	"coursehub/services/tasks"
	"coursehub/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReminderSender delivers the reminders for one event.
type ReminderSender interface {
	SendReminders(ctx context.Context, eventID string) error
}

// RedisOpt is the asynq connection for the reminder queue.
func RedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

// NewReminderMux routes reminder tasks to sender.
func NewReminderMux(sender ReminderSender) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEventReminder, handleEventReminder(sender))
	return mux
}

// StartReminderWorker runs the async worker in background and returns it for shutdown.
func StartReminderWorker(opt asynq.RedisClientOpt, sender ReminderSender) (*asynq.Server, error) {
	logger := utils.GetLogger()
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			tasks.ReminderQueue: 1,
		},
		Logger: logger.Sugar(),
	})
	mux := NewReminderMux(sender)

	const maxAttempts = 5
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = srv.Start(mux); err == nil {
			logger.Info("reminder worker started")
			return srv, nil
		}
		logger.Warn("reminder worker failed to start",
			zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
		time.Sleep(time.Duration(attempts*2) * time.Second)
	}
	return nil, fmt.Errorf("reminder worker: %w", err)
}

func handleEventReminder(sender ReminderSender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseEventReminder(task)
		if err != nil {
			utils.GetLogger().Error("dropping reminder task", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		err = sender.SendReminders(ctx, p.EventID)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, events.ErrEventNotFound):
			// Deleted after the task was queued.
			return nil
		default:
			utils.GetLogger().Error("sending event reminders failed", zap.String("eventID", p.EventID), zap.Error(err))
			return err
		}
	}
}
