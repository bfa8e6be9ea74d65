package progressRepo

import (
	"context"
	"time"

	"coursehub/models"
)

// ProgressUpdate is one playback report for a (user, lesson) pair.
type ProgressUpdate struct {
	UserID          string
	CourseID        string
	LessonID        string
	PositionSeconds int
	Percent         int
	At              time.Time
}

type ProgressRepository interface {
	// Upsert records the latest position and raises the stored percent to at least u.Percent.
	Upsert(ctx context.Context, u ProgressUpdate) (*models.Progress, error)
	// MarkCompleted sets the completion flag once; later calls keep the first timestamp.
	MarkCompleted(ctx context.Context, userID, lessonID string, at time.Time) error
	Get(ctx context.Context, userID, lessonID string) (*models.Progress, error)
	ListByCourse(ctx context.Context, userID, courseID string) ([]models.Progress, error)
}
