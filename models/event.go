package models

import "time"

// Event is a scheduled community session (live class, meetup, Q&A).
type Event struct {
	ID              string    `bson:"id" json:"id"`
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description" json:"description"`
	Location        string    `bson:"location,omitempty" json:"location,omitempty"`
	MeetingURL      string    `bson:"meeting_url,omitempty" json:"meetingUrl,omitempty"`
	StartsAt        time.Time `bson:"starts_at" json:"startsAt"`
	EndsAt          time.Time `bson:"ends_at" json:"endsAt"`
	Capacity        int       `bson:"capacity" json:"capacity"`
	RegisteredCount int       `bson:"registered_count" json:"registeredCount"`
	CreatedBy       string    `bson:"created_by" json:"createdBy"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

// Full reports whether the event has no seat left. Capacity 0 means unlimited.
func (e *Event) Full() bool {
	return e.Capacity > 0 && e.RegisteredCount >= e.Capacity
}

type Registration struct {
	EventID   string    `bson:"event_id" json:"eventId"`
	UserID    string    `bson:"user_id" json:"userId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

type EventRequest struct {
	Title       string    `json:"title" validate:"required,max=160"`
	Description string    `json:"description" validate:"max=5000"`
	Location    string    `json:"location" validate:"max=240"`
	MeetingURL  string    `json:"meetingUrl" validate:"omitempty,url"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
	EndsAt      time.Time `json:"endsAt" validate:"required"`
	Capacity    int       `json:"capacity" validate:"gte=0"`
}
