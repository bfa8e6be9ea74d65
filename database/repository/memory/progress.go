package memoryRepo

import (
	"context"
	"sync"
	"time"

	"coursehub/database"
	progressRepo "coursehub/database/repository/progress"
	"coursehub/models"

	"github.com/google/uuid"
)

type ProgressRepo struct {
	mu   sync.Mutex
	rows map[string]models.Progress
}

func NewProgressRepo() *ProgressRepo {
	return &ProgressRepo{rows: map[string]models.Progress{}}
}

func progressKey(userID, lessonID string) string { return userID + "|" + lessonID }

func (r *ProgressRepo) Upsert(_ context.Context, u progressRepo.ProgressUpdate) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := progressKey(u.UserID, u.LessonID)
	p, ok := r.rows[key]
	if !ok {
		p = models.Progress{ID: uuid.New().String(), UserID: u.UserID, CourseID: u.CourseID, LessonID: u.LessonID}
	}
	p.Percent = max(p.Percent, u.Percent)
	p.PositionSeconds = u.PositionSeconds
	p.UpdatedAt = u.At
	r.rows[key] = p
	return &p, nil
}

func (r *ProgressRepo) MarkCompleted(_ context.Context, userID, lessonID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := progressKey(userID, lessonID)
	p, ok := r.rows[key]
	if !ok || p.Completed {
		return nil
	}
	p.Completed = true
	p.CompletedAt = &at
	r.rows[key] = p
	return nil
}

func (r *ProgressRepo) Get(_ context.Context, userID, lessonID string) (*models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[progressKey(userID, lessonID)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (r *ProgressRepo) ListByCourse(_ context.Context, userID, courseID string) ([]models.Progress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Progress{}
	for _, p := range r.rows {
		if p.UserID == userID && p.CourseID == courseID {
			out = append(out, p)
		}
	}
	return out, nil
}
