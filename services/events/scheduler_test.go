package events

import (
	"context"
	"testing"
	"time"

	"coursehub/models"
	"coursehub/services/tasks"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *AsynqReminderScheduler {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewAsynqReminderScheduler(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func reminderInfo(t *testing.T, s *AsynqReminderScheduler, eventID string) (*asynq.TaskInfo, error) {
	t.Helper()
	return s.Inspector.GetTaskInfo(tasks.ReminderQueue, tasks.EventReminderTaskID(eventID))
}

func TestSchedulerScheduleAndReschedule(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()
	event := &models.Event{ID: "evt-1", StartsAt: time.Now().Add(5 * time.Hour)}

	require.NoError(t, s.Schedule(ctx, event))
	info, err := reminderInfo(t, s, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, asynq.TaskStateScheduled, info.State)
	assert.Equal(t, tasks.TypeEventReminder, info.Type)
	assert.WithinDuration(t, event.StartsAt.Add(-time.Hour), info.NextProcessAt, 2*time.Second)

	// Moving the event replaces the pending reminder under the same task id.
	event.StartsAt = time.Now().Add(10 * time.Hour)
	require.NoError(t, s.Schedule(ctx, event))
	info, err = reminderInfo(t, s, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, asynq.TaskStateScheduled, info.State)
	assert.WithinDuration(t, event.StartsAt.Add(-time.Hour), info.NextProcessAt, 2*time.Second)

	scheduled, err := s.Inspector.ListScheduledTasks(tasks.ReminderQueue)
	require.NoError(t, err)
	assert.Len(t, scheduled, 1)
}

func TestSchedulerCancel(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	// Nothing queued yet.
	require.NoError(t, s.Cancel(ctx, "evt-2"))

	require.NoError(t, s.Schedule(ctx, &models.Event{ID: "evt-2", StartsAt: time.Now().Add(3 * time.Hour)}))
	require.NoError(t, s.Cancel(ctx, "evt-2"))

	_, err := reminderInfo(t, s, "evt-2")
	assert.ErrorIs(t, err, asynq.ErrTaskNotFound)
	require.NoError(t, s.Cancel(ctx, "evt-2"))
}

func TestSchedulerInsideLeadTimeFiresNow(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, s.Schedule(ctx, &models.Event{ID: "evt-3", StartsAt: time.Now().Add(10 * time.Minute)}))
	info, err := reminderInfo(t, s, "evt-3")
	require.NoError(t, err)
	assert.Equal(t, asynq.TaskStatePending, info.State)
}

func TestSchedulerSkipsStartedEvents(t *testing.T) {
	s := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, s.Schedule(ctx, &models.Event{ID: "evt-4", StartsAt: time.Now().Add(-time.Minute)}))
	_, err := reminderInfo(t, s, "evt-4")
	assert.Error(t, err)
}
