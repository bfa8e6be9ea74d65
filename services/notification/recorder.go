package notification

import (
	"context"
	"sync"

	"coursehub/models"
)

// Push is a push notification captured by Recorder.
type Push struct {
	UserID string
	Title  string
	Body   string
	Data   map[string]string
}

// Recorder keeps every message in memory instead of delivering it. Used by tests
// and by local runs without mail or push credentials.
type Recorder struct {
	mu     sync.Mutex
	emails []models.Email
	pushes []Push
}

func (r *Recorder) SendPush(_ context.Context, userID, title, body string, data map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes = append(r.pushes, Push{UserID: userID, Title: title, Body: body, Data: data})
	return nil
}

func (r *Recorder) SendEmail(_ context.Context, msg models.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails = append(r.emails, msg)
	return nil
}

func (r *Recorder) Emails() []models.Email {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Email(nil), r.emails...)
}

func (r *Recorder) Pushes() []Push {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Push(nil), r.pushes...)
}

// LastEmail returns the most recent email, if any.
func (r *Recorder) LastEmail() (models.Email, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.emails) == 0 {
		return models.Email{}, false
	}
	return r.emails[len(r.emails)-1], true
}
