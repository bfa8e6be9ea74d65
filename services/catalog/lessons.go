package catalog

import (
	"context"
	"errors"
	"strings"

	"coursehub/database"
	"coursehub/models"

	"github.com/google/uuid"
)

func applyLessonRequest(lesson *models.Lesson, req models.LessonRequest) {
	lesson.CourseID = req.CourseID
	lesson.Title = strings.TrimSpace(req.Title)
	lesson.Summary = req.Summary
	lesson.VideoURL = strings.TrimSpace(req.VideoURL)
	lesson.DurationSeconds = req.DurationSeconds
	lesson.Position = req.Position
	lesson.FreePreview = req.FreePreview
}

func (s *DefaultCatalogService) CreateLesson(ctx context.Context, req models.LessonRequest) (*models.Lesson, error) {
	if _, err := s.Repo.GetCourseByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	lesson := &models.Lesson{ID: uuid.New().String()}
	applyLessonRequest(lesson, req)
	if err := s.Repo.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *DefaultCatalogService) UpdateLesson(ctx context.Context, lessonID string, req models.LessonRequest) (*models.Lesson, error) {
	lesson, err := s.Repo.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	if req.CourseID != lesson.CourseID {
		if _, err := s.Repo.GetCourseByID(ctx, req.CourseID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, err
		}
	}
	applyLessonRequest(lesson, req)
	if err := s.Repo.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *DefaultCatalogService) DeleteLesson(ctx context.Context, lessonID string) error {
	if err := s.Repo.DeleteLesson(ctx, lessonID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrLessonNotFound
		}
		return err
	}
	return nil
}
