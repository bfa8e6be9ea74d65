package events

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	memoryRepo "coursehub/database/repository/memory"
	"coursehub/models"
	"coursehub/services/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled map[string]time.Time
	cancelled []string
}

func (f *fakeScheduler) Schedule(_ context.Context, e *models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled[e.ID] = e.StartsAt
	return nil
}

func (f *fakeScheduler) Cancel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scheduled, id)
	f.cancelled = append(f.cancelled, id)
	return nil
}

type fixture struct {
	svc       *DefaultEventService
	repo      *memoryRepo.EventRepo
	scheduler *fakeScheduler
	recorder  *notification.Recorder
}

var organizer = models.Actor{UserID: "admin", Role: models.RoleAdmin}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := memoryRepo.NewUserRepo()
	for _, id := range []string{"u1", "u2", "u3"} {
		require.NoError(t, users.Create(context.Background(), &models.User{ID: id, Name: id, Email: id + "@example.com"}))
	}
	repo := memoryRepo.NewEventRepo()
	sched := &fakeScheduler{scheduled: map[string]time.Time{}}
	rec := &notification.Recorder{}
	return &fixture{
		svc:       &DefaultEventService{Repo: repo, Users: users, Notifier: rec, Reminders: sched},
		repo:      repo,
		scheduler: sched,
		recorder:  rec,
	}
}

func request(start time.Time, capacity int) models.EventRequest {
	return models.EventRequest{
		Title:    "Live Q&A",
		StartsAt: start,
		EndsAt:   start.Add(time.Hour),
		Capacity: capacity,
	}
}

func TestCreateEventSchedulesReminder(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(48 * time.Hour)

	ev, err := f.svc.CreateEvent(context.Background(), organizer, request(start, 10))
	require.NoError(t, err)
	assert.Equal(t, "admin", ev.CreatedBy)
	assert.True(t, f.scheduler.scheduled[ev.ID].Equal(start))
}

func TestCreateEventRejectsBadSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateEvent(ctx, organizer, request(time.Now().Add(-time.Hour), 0))
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	req := request(time.Now().Add(time.Hour), 0)
	req.EndsAt = req.StartsAt
	_, err = f.svc.CreateEvent(ctx, organizer, req)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestUpdateEventReschedules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev, err := f.svc.CreateEvent(ctx, organizer, request(time.Now().Add(24*time.Hour), 2))
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "u1", ev.ID)
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "u2", ev.ID)
	require.NoError(t, err)

	moved := time.Now().Add(72 * time.Hour)
	updated, err := f.svc.UpdateEvent(ctx, ev.ID, request(moved, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Capacity)
	assert.True(t, f.scheduler.scheduled[ev.ID].Equal(moved.UTC()))

	_, err = f.svc.UpdateEvent(ctx, ev.ID, request(moved, 1))
	assert.ErrorIs(t, err, ErrCapacityTooLow)
	_, err = f.svc.UpdateEvent(ctx, "missing", request(moved, 1))
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRegisterCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev, err := f.svc.CreateEvent(ctx, organizer, request(time.Now().Add(24*time.Hour), 2))
	require.NoError(t, err)

	got, err := f.svc.Register(ctx, "u1", ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RegisteredCount)

	_, err = f.svc.Register(ctx, "u1", ev.ID)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = f.svc.Register(ctx, "u2", ev.ID)
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "u3", ev.ID)
	assert.ErrorIs(t, err, ErrEventFull)

	stored, err := f.svc.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.RegisteredCount, "failed attempts leave the counter alone")

	require.NoError(t, f.svc.Unregister(ctx, "u1", ev.ID))
	assert.ErrorIs(t, f.svc.Unregister(ctx, "u1", ev.ID), ErrNotRegistered)
	_, err = f.svc.Register(ctx, "u3", ev.ID)
	assert.NoError(t, err)
}

func TestRegisterConcurrentNeverOverbooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev, err := f.svc.CreateEvent(ctx, organizer, request(time.Now().Add(24*time.Hour), 3))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = f.svc.Register(ctx, fmt.Sprintf("user-%d", i), ev.ID)
		}(i)
	}
	wg.Wait()

	stored, err := f.svc.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.RegisteredCount)
	ids, err := f.repo.ListRegistrantIDs(ctx, ev.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestRegisterAfterStart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	started := &models.Event{ID: "past", Title: "Old", StartsAt: time.Now().Add(-time.Minute), EndsAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.repo.Create(ctx, started))

	_, err := f.svc.Register(ctx, "u1", "past")
	assert.ErrorIs(t, err, ErrEventStarted)
	_, err = f.svc.Register(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteEventCancelsReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev, err := f.svc.CreateEvent(ctx, organizer, request(time.Now().Add(24*time.Hour), 0))
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "u1", ev.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEvent(ctx, ev.ID))
	assert.Contains(t, f.scheduler.cancelled, ev.ID)
	assert.ErrorIs(t, f.svc.DeleteEvent(ctx, ev.ID), ErrEventNotFound)

	mine, err := f.svc.ListMyRegistrations(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	later, err := f.svc.CreateEvent(ctx, organizer, request(time.Now().Add(48*time.Hour), 0))
	require.NoError(t, err)
	sooner, err := f.svc.CreateEvent(ctx, organizer, request(time.Now().Add(2*time.Hour), 0))
	require.NoError(t, err)

	upcoming, err := f.svc.ListUpcoming(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, sooner.ID, upcoming[0].ID)

	_, err = f.svc.Register(ctx, "u1", later.ID)
	require.NoError(t, err)
	mine, err := f.svc.ListMyRegistrations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, later.ID, mine[0].ID)
}

func TestSendReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ev, err := f.svc.CreateEvent(ctx, organizer, request(time.Now().Add(30*time.Minute), 0))
	require.NoError(t, err)
	for _, id := range []string{"u1", "u2"} {
		_, err := f.svc.Register(ctx, id, ev.ID)
		require.NoError(t, err)
	}

	require.NoError(t, f.svc.SendReminders(ctx, ev.ID))
	assert.Len(t, f.recorder.Pushes(), 2)
	emails := f.recorder.Emails()
	require.Len(t, emails, 2)
	assert.ElementsMatch(t, []string{"u1@example.com", "u2@example.com"}, []string{emails[0].ToEmail, emails[1].ToEmail})

	assert.NoError(t, f.svc.SendReminders(ctx, "deleted"))
}
