package models

// ReminderPayload is the queued body of an event reminder task.
type ReminderPayload struct {
	EventID string `json:"eventId"`
}
