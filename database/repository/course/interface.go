package courseRepo

import (
	"context"

	"coursehub/models"
)

// CourseRepository covers courses and their lessons.
type CourseRepository interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	UpdateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error)
	// ListCourses returns courses ordered by creation date, newest first.
	ListCourses(ctx context.Context, publishedOnly bool) ([]models.Course, error)
	CountCourses(ctx context.Context) (int64, error)

	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	DeleteLesson(ctx context.Context, id string) error
	GetLesson(ctx context.Context, id string) (*models.Lesson, error)
	// ListLessons returns the lessons of a course ordered by position.
	ListLessons(ctx context.Context, courseID string) ([]models.Lesson, error)
	CountLessons(ctx context.Context, courseID string) (int64, error)
}
