package progress

import (
	"context"
	"errors"

	courseRepo "coursehub/database/repository/course"
	progressRepo "coursehub/database/repository/progress"
	"coursehub/models"
	"coursehub/services/catalog"
)

var (
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrNoAccess        = errors.New("course not purchased")
	ErrInvalidDuration = errors.New("lesson duration unknown")
)

const DefaultCompletionThreshold = 90

type ProgressService interface {
	RecordProgress(ctx context.Context, userID string, isAdmin bool, lessonID string, req models.ProgressUpdateRequest) (*models.Progress, error)
	MarkComplete(ctx context.Context, userID string, isAdmin bool, lessonID string) (*models.Progress, error)
	GetLessonProgress(ctx context.Context, userID, lessonID string) (*models.Progress, error)
	GetCourseProgress(ctx context.Context, userID, courseID string) (*models.CourseProgress, error)
}

type DefaultProgressService struct {
	Repo    progressRepo.ProgressRepository
	Courses courseRepo.CourseRepository
	Access  catalog.AccessChecker
	// CompletionThreshold is the percent at which a lesson counts as watched.
	CompletionThreshold int
}
