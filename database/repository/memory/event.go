package memoryRepo

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"coursehub/database"
	"coursehub/models"
)

type EventRepo struct {
	mu            sync.Mutex
	events        map[string]models.Event
	registrations map[string]models.Registration
}

func NewEventRepo() *EventRepo {
	return &EventRepo{events: map[string]models.Event{}, registrations: map[string]models.Registration{}}
}

func (r *EventRepo) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	event.CreatedAt, event.UpdatedAt = now, now
	r.events[event.ID] = *event
	return nil
}

func (r *EventRepo) Update(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.events[event.ID]
	if !ok {
		return database.ErrNotFound
	}
	stored.Title = event.Title
	stored.Description = event.Description
	stored.Location = event.Location
	stored.MeetingURL = event.MeetingURL
	stored.StartsAt = event.StartsAt
	stored.EndsAt = event.EndsAt
	stored.Capacity = event.Capacity
	stored.UpdatedAt = time.Now()
	r.events[event.ID] = stored
	return nil
}

func (r *EventRepo) Get(_ context.Context, id string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &e, nil
}

func (r *EventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.events, id)
	for k, reg := range r.registrations {
		if reg.EventID == id {
			delete(r.registrations, k)
		}
	}
	return nil
}

func (r *EventRepo) filtered(keep func(models.Event) bool) []models.Event {
	out := []models.Event{}
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out
}

func (r *EventRepo) ListUpcoming(_ context.Context, now time.Time, skip, limit int64) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.filtered(func(e models.Event) bool { return e.EndsAt.After(now) })
	return window(out, skip, limit), nil
}

func (r *EventRepo) CountUpcoming(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.filtered(func(e models.Event) bool { return e.StartsAt.After(now) }))), nil
}

func (r *EventRepo) ListByIDs(_ context.Context, ids []string) ([]models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Event{}
	for _, e := range r.events {
		if slices.Contains(ids, e.ID) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *EventRepo) ReserveSeat(_ context.Context, eventID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok || !e.StartsAt.After(now) || e.Full() {
		return false, nil
	}
	e.RegisteredCount++
	r.events[eventID] = e
	return true, nil
}

func (r *EventRepo) ReleaseSeat(_ context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if ok && e.RegisteredCount > 0 {
		e.RegisteredCount--
		r.events[eventID] = e
	}
	return nil
}

func regKey(eventID, userID string) string { return eventID + "|" + userID }

func (r *EventRepo) InsertRegistration(_ context.Context, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := regKey(reg.EventID, reg.UserID)
	if _, ok := r.registrations[key]; ok {
		return database.ErrDuplicate
	}
	r.registrations[key] = *reg
	return nil
}

func (r *EventRepo) DeleteRegistration(_ context.Context, eventID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := regKey(eventID, userID)
	if _, ok := r.registrations[key]; !ok {
		return false, nil
	}
	delete(r.registrations, key)
	return true, nil
}

func (r *EventRepo) ListRegistrationsByUser(_ context.Context, userID string) ([]models.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Registration{}
	for _, reg := range r.registrations {
		if reg.UserID == userID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *EventRepo) ListRegistrantIDs(_ context.Context, eventID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, reg := range r.registrations {
		if reg.EventID == eventID {
			out = append(out, reg.UserID)
		}
	}
	sort.Strings(out)
	return out, nil
}
