package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"coursehub/models"

	"github.com/hibiken/asynq"
)

const (
	TypeEventReminder = "event:reminder"
	ReminderQueue     = "default"
	// ReminderLeadTime is how long before an event starts its registrants are reminded.
	ReminderLeadTime = time.Hour
)

// EventReminderTaskID is stable per event so a reschedule replaces the pending task.
func EventReminderTaskID(eventID string) string {
	return "event-reminder:" + eventID
}

func NewEventReminderTask(eventID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.ReminderPayload{EventID: eventID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeEventReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(EventReminderTaskID(eventID)),
		asynq.Queue(ReminderQueue),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

func ParseEventReminder(task *asynq.Task) (models.ReminderPayload, error) {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid reminder payload: %w", err)
	}
	if p.EventID == "" {
		return p, fmt.Errorf("invalid reminder payload: missing event id")
	}
	return p, nil
}
