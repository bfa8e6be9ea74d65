package catalog

import (
	"context"
	"errors"

	courseRepo "coursehub/database/repository/course"
	leadRepo "coursehub/database/repository/lead"
	"coursehub/models"
	"coursehub/services/notification"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrSlugTaken      = errors.New("slug already in use")
	ErrInvalidSlug    = errors.New("slug may only contain lowercase letters, digits and dashes")
	ErrNoAccess       = errors.New("lesson requires a purchase")
)

// Viewer identifies who is looking at catalog content. A zero Viewer is anonymous.
type Viewer struct {
	UserID string
	Role   string
}

func (v Viewer) IsAdmin() bool { return v.Role == models.RoleAdmin }

// AccessChecker answers whether a user owns a course.
type AccessChecker interface {
	HasAccess(ctx context.Context, userID, courseID string) (bool, error)
}

type CatalogService interface {
	ListPublishedCourses(ctx context.Context) ([]models.Course, error)
	ListAllCourses(ctx context.Context) ([]models.Course, error)
	GetCourseBySlug(ctx context.Context, slug string, viewer Viewer) (*models.CourseDetail, error)
	GetLesson(ctx context.Context, lessonID string, viewer Viewer) (*models.Lesson, error)

	CreateCourse(ctx context.Context, req models.CourseRequest) (*models.Course, error)
	UpdateCourse(ctx context.Context, courseID string, req models.CourseRequest) (*models.Course, error)
	CreateLesson(ctx context.Context, req models.LessonRequest) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, lessonID string, req models.LessonRequest) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID string) error

	// CaptureLead stores a marketing contact and reports whether it was new.
	CaptureLead(ctx context.Context, req models.LeadRequest) (bool, error)
}

type DefaultCatalogService struct {
	Repo            courseRepo.CourseRepository
	Leads           leadRepo.LeadRepository
	Access          AccessChecker
	Notifier        notification.NotificationService
	DefaultCurrency string
}
