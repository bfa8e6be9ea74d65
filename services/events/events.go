package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxEventPageSize = 50

func validateSchedule(req models.EventRequest, now time.Time) error {
	if !req.StartsAt.After(now) || !req.EndsAt.After(req.StartsAt) {
		return ErrInvalidSchedule
	}
	return nil
}

func applyRequest(e *models.Event, req models.EventRequest) {
	e.Title = strings.TrimSpace(req.Title)
	e.Description = req.Description
	e.Location = strings.TrimSpace(req.Location)
	e.MeetingURL = strings.TrimSpace(req.MeetingURL)
	e.StartsAt = req.StartsAt.UTC()
	e.EndsAt = req.EndsAt.UTC()
	e.Capacity = req.Capacity
}

func (s *DefaultEventService) CreateEvent(ctx context.Context, actor models.Actor, req models.EventRequest) (*models.Event, error) {
	if err := validateSchedule(req, time.Now()); err != nil {
		return nil, err
	}
	event := &models.Event{ID: uuid.New().String(), CreatedBy: actor.UserID}
	applyRequest(event, req)
	if err := s.Repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.schedule(ctx, event)
	return event, nil
}

func (s *DefaultEventService) UpdateEvent(ctx context.Context, eventID string, req models.EventRequest) (*models.Event, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := validateSchedule(req, time.Now()); err != nil {
		return nil, err
	}
	if req.Capacity > 0 && req.Capacity < event.RegisteredCount {
		return nil, ErrCapacityTooLow
	}
	rescheduled := !event.StartsAt.Equal(req.StartsAt.UTC())
	applyRequest(event, req)
	if err := s.Repo.Update(ctx, event); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if rescheduled {
		s.schedule(ctx, event)
	}
	return event, nil
}

func (s *DefaultEventService) DeleteEvent(ctx context.Context, eventID string) error {
	if err := s.Repo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if s.Reminders != nil {
		if err := s.Reminders.Cancel(ctx, eventID); err != nil {
			utils.GetLogger().Warn("reminder not cancelled", zap.String("eventID", eventID), zap.Error(err))
		}
	}
	return nil
}

// schedule is best effort: the event is already stored.
func (s *DefaultEventService) schedule(ctx context.Context, event *models.Event) {
	if s.Reminders == nil {
		return
	}
	if err := s.Reminders.Schedule(ctx, event); err != nil {
		utils.GetLogger().Error("reminder not scheduled", zap.String("eventID", event.ID), zap.Error(err))
	}
}

func (s *DefaultEventService) ListUpcoming(ctx context.Context, page, pageSize int) ([]models.Event, error) {
	skip, limit := database.Paging(page, pageSize, maxEventPageSize)
	return s.Repo.ListUpcoming(ctx, time.Now(), skip, limit)
}

func (s *DefaultEventService) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.Repo.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// Register claims a seat. The registration row is written first so a duplicate
// never touches the seat counter.
func (s *DefaultEventService) Register(ctx context.Context, userID, eventID string) (*models.Event, error) {
	now := time.Now()
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.StartsAt.After(now) {
		return nil, ErrEventStarted
	}

	reg := &models.Registration{EventID: eventID, UserID: userID, CreatedAt: now}
	if err := s.Repo.InsertRegistration(ctx, reg); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	reserved, err := s.Repo.ReserveSeat(ctx, eventID, now)
	if err != nil || !reserved {
		if _, derr := s.Repo.DeleteRegistration(ctx, eventID, userID); derr != nil {
			utils.GetLogger().Error("orphan registration left behind",
				zap.String("eventID", eventID), zap.String("userID", userID), zap.Error(derr))
		}
		if err != nil {
			return nil, err
		}
		return nil, s.whyNoSeat(ctx, eventID, now)
	}
	return s.GetEvent(ctx, eventID)
}

func (s *DefaultEventService) whyNoSeat(ctx context.Context, eventID string, now time.Time) error {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.StartsAt.After(now) {
		return ErrEventStarted
	}
	return ErrEventFull
}

func (s *DefaultEventService) Unregister(ctx context.Context, userID, eventID string) error {
	removed, err := s.Repo.DeleteRegistration(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotRegistered
	}
	return s.Repo.ReleaseSeat(ctx, eventID)
}

func (s *DefaultEventService) ListMyRegistrations(ctx context.Context, userID string) ([]models.Event, error) {
	regs, err := s.Repo.ListRegistrationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return []models.Event{}, nil
	}
	ids := make([]string, 0, len(regs))
	for _, r := range regs {
		ids = append(ids, r.EventID)
	}
	return s.Repo.ListByIDs(ctx, ids)
}
