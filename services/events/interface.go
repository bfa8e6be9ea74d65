package events

import (
	"context"
	"errors"

	eventRepo "coursehub/database/repository/event"
	userRepo "coursehub/database/repository/user"
	"coursehub/models"
	"coursehub/services/notification"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventFull         = errors.New("event is full")
	ErrEventStarted      = errors.New("event has already started")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrNotRegistered     = errors.New("not registered for this event")
	ErrInvalidSchedule   = errors.New("event must start in the future and end after it starts")
	ErrCapacityTooLow    = errors.New("capacity is below the number of registrations")
)

type EventService interface {
	CreateEvent(ctx context.Context, actor models.Actor, req models.EventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	ListUpcoming(ctx context.Context, page, pageSize int) ([]models.Event, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	Register(ctx context.Context, userID, eventID string) (*models.Event, error)
	Unregister(ctx context.Context, userID, eventID string) error
	ListMyRegistrations(ctx context.Context, userID string) ([]models.Event, error)

	// SendReminders notifies every registrant of an event. Called by the reminder worker.
	SendReminders(ctx context.Context, eventID string) error
}

// ReminderScheduler queues the pre-event reminder.
type ReminderScheduler interface {
	Schedule(ctx context.Context, event *models.Event) error
	Cancel(ctx context.Context, eventID string) error
}

type DefaultEventService struct {
	Repo      eventRepo.EventRepository
	Users     userRepo.UserRepository
	Notifier  notification.NotificationService
	Reminders ReminderScheduler
}
