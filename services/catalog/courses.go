package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func (s *DefaultCatalogService) ListPublishedCourses(ctx context.Context) ([]models.Course, error) {
	return s.Repo.ListCourses(ctx, true)
}

func (s *DefaultCatalogService) ListAllCourses(ctx context.Context) ([]models.Course, error) {
	return s.Repo.ListCourses(ctx, false)
}

// GetCourseBySlug returns the course page. Video links are only kept for free previews,
// owners and admins; drafts are visible to admins only.
func (s *DefaultCatalogService) GetCourseBySlug(ctx context.Context, slug string, viewer Viewer) (*models.CourseDetail, error) {
	course, err := s.Repo.GetCourseBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if !course.Published && !viewer.IsAdmin() {
		return nil, ErrCourseNotFound
	}

	lessons, err := s.Repo.ListLessons(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lessons: %w", err)
	}

	owned, err := s.canWatch(ctx, viewer, course.ID)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		if !owned && !lessons[i].FreePreview {
			lessons[i].VideoURL = ""
		}
	}
	return &models.CourseDetail{Course: *course, Lessons: lessons, Owned: owned}, nil
}

// GetLesson returns a lesson with its video link when the viewer may watch it.
func (s *DefaultCatalogService) GetLesson(ctx context.Context, lessonID string, viewer Viewer) (*models.Lesson, error) {
	lesson, err := s.Repo.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	course, err := s.Repo.GetCourseByID(ctx, lesson.CourseID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if !course.Published && !viewer.IsAdmin() {
		return nil, ErrLessonNotFound
	}
	if lesson.FreePreview {
		return lesson, nil
	}

	ok, err := s.canWatch(ctx, viewer, course.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoAccess
	}
	return lesson, nil
}

func (s *DefaultCatalogService) canWatch(ctx context.Context, viewer Viewer, courseID string) (bool, error) {
	if viewer.IsAdmin() {
		return true, nil
	}
	if viewer.UserID == "" || s.Access == nil {
		return false, nil
	}
	ok, err := s.Access.HasAccess(ctx, viewer.UserID, courseID)
	if err != nil {
		return false, fmt.Errorf("failed to check course access: %w", err)
	}
	return ok, nil
}

func (s *DefaultCatalogService) applyCourseRequest(course *models.Course, req models.CourseRequest) error {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugRe.MatchString(slug) {
		return ErrInvalidSlug
	}
	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = strings.ToLower(s.DefaultCurrency)
	}
	if currency == "" {
		currency = "usd"
	}

	course.Slug = slug
	course.Title = strings.TrimSpace(req.Title)
	course.Subtitle = strings.TrimSpace(req.Subtitle)
	course.Description = req.Description
	course.PriceCents = req.PriceCents
	course.Currency = currency
	course.CoverImage = req.CoverImage
	course.Published = req.Published
	return nil
}

func (s *DefaultCatalogService) CreateCourse(ctx context.Context, req models.CourseRequest) (*models.Course, error) {
	course := &models.Course{ID: uuid.New().String()}
	if err := s.applyCourseRequest(course, req); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateCourse(ctx, course); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	utils.GetLogger().Info("course created", zap.String("courseID", course.ID), zap.String("slug", course.Slug))
	return course, nil
}

func (s *DefaultCatalogService) UpdateCourse(ctx context.Context, courseID string, req models.CourseRequest) (*models.Course, error) {
	course, err := s.Repo.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.applyCourseRequest(course, req); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateCourse(ctx, course); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return course, nil
}
