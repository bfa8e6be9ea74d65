package eventRepo

import (
	"context"
	"time"

	"coursehub/models"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Get(ctx context.Context, id string) (*models.Event, error)
	// Delete removes the event and all of its registrations.
	Delete(ctx context.Context, id string) error
	// ListUpcoming returns events ending after now, soonest first.
	ListUpcoming(ctx context.Context, now time.Time, skip, limit int64) ([]models.Event, error)
	CountUpcoming(ctx context.Context, now time.Time) (int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Event, error)

	// ReserveSeat increments RegisteredCount when the event has not started and has room.
	ReserveSeat(ctx context.Context, eventID string, now time.Time) (bool, error)
	ReleaseSeat(ctx context.Context, eventID string) error

	// InsertRegistration fails with database.ErrDuplicate on a repeat registration.
	InsertRegistration(ctx context.Context, reg *models.Registration) error
	DeleteRegistration(ctx context.Context, eventID, userID string) (bool, error)
	ListRegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error)
	ListRegistrantIDs(ctx context.Context, eventID string) ([]string, error)
}
