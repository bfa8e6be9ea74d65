package progress

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"time"

	"coursehub/database"
	progressRepo "coursehub/database/repository/progress"
	"coursehub/models"
	"coursehub/utils"

	"go.uber.org/zap"
)

// Percent converts a playback position into a whole percentage in [0, 100], rounding down.
func Percent(positionSeconds, durationSeconds int) int {
	if durationSeconds <= 0 || positionSeconds <= 0 {
		return 0
	}
	if positionSeconds >= durationSeconds {
		return 100
	}
	// 128-bit product: position*100 can overflow int for very large inputs.
	hi, lo := bits.Mul64(uint64(positionSeconds), 100)
	q, _ := bits.Div64(hi, lo, uint64(durationSeconds))
	return int(q)
}

func (s *DefaultProgressService) threshold() int {
	if s.CompletionThreshold <= 0 || s.CompletionThreshold > 100 {
		return DefaultCompletionThreshold
	}
	return s.CompletionThreshold
}

// lessonFor loads the lesson and enforces course ownership.
func (s *DefaultProgressService) lessonFor(ctx context.Context, userID string, isAdmin bool, lessonID string) (*models.Lesson, error) {
	lesson, err := s.Courses.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	if isAdmin || lesson.FreePreview {
		return lesson, nil
	}
	ok, err := s.Access.HasAccess(ctx, userID, lesson.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check access: %w", err)
	}
	if !ok {
		return nil, ErrNoAccess
	}
	return lesson, nil
}

func (s *DefaultProgressService) RecordProgress(ctx context.Context, userID string, isAdmin bool, lessonID string, req models.ProgressUpdateRequest) (*models.Progress, error) {
	lesson, err := s.lessonFor(ctx, userID, isAdmin, lessonID)
	if err != nil {
		return nil, err
	}
	duration := req.DurationSeconds
	if duration <= 0 {
		duration = lesson.DurationSeconds
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	position := max(req.PositionSeconds, 0)

	now := time.Now()
	p, err := s.Repo.Upsert(ctx, progressRepo.ProgressUpdate{
		UserID:          userID,
		CourseID:        lesson.CourseID,
		LessonID:        lesson.ID,
		PositionSeconds: position,
		Percent:         Percent(position, duration),
		At:              now,
	})
	if err != nil {
		return nil, err
	}

	if !p.Completed && p.Percent >= s.threshold() {
		if err := s.Repo.MarkCompleted(ctx, userID, lesson.ID, now); err != nil {
			return nil, err
		}
		utils.GetLogger().Debug("lesson completed",
			zap.String("userID", userID), zap.String("lessonID", lesson.ID), zap.Int("percent", p.Percent))
		return s.Repo.Get(ctx, userID, lesson.ID)
	}
	return p, nil
}

func (s *DefaultProgressService) MarkComplete(ctx context.Context, userID string, isAdmin bool, lessonID string) (*models.Progress, error) {
	lesson, err := s.lessonFor(ctx, userID, isAdmin, lessonID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	// Keep the resume point where it was.
	position := 0
	if existing, err := s.Repo.Get(ctx, userID, lesson.ID); err == nil {
		position = existing.PositionSeconds
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	if _, err := s.Repo.Upsert(ctx, progressRepo.ProgressUpdate{
		UserID:          userID,
		CourseID:        lesson.CourseID,
		LessonID:        lesson.ID,
		PositionSeconds: position,
		Percent:         100,
		At:              now,
	}); err != nil {
		return nil, err
	}
	if err := s.Repo.MarkCompleted(ctx, userID, lesson.ID, now); err != nil {
		return nil, err
	}
	return s.Repo.Get(ctx, userID, lesson.ID)
}

// GetLessonProgress returns a zero record for lessons never played.
func (s *DefaultProgressService) GetLessonProgress(ctx context.Context, userID, lessonID string) (*models.Progress, error) {
	p, err := s.Repo.Get(ctx, userID, lessonID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}
	lesson, err := s.Courses.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	return &models.Progress{UserID: userID, CourseID: lesson.CourseID, LessonID: lesson.ID}, nil
}

func (s *DefaultProgressService) GetCourseProgress(ctx context.Context, userID, courseID string) (*models.CourseProgress, error) {
	if _, err := s.Courses.GetCourseByID(ctx, courseID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	lessons, err := s.Courses.ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	rows, err := s.Repo.ListByCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	byLesson := make(map[string]models.Progress, len(rows))
	for _, r := range rows {
		byLesson[r.LessonID] = r
	}
	out := &models.CourseProgress{CourseID: courseID, TotalLessons: len(lessons), Lessons: []models.Progress{}}
	// Rows for deleted lessons are not counted.
	for _, l := range lessons {
		r, ok := byLesson[l.ID]
		if !ok {
			continue
		}
		if r.Completed {
			out.CompletedLessons++
		}
		out.Lessons = append(out.Lessons, r)
	}
	if out.TotalLessons > 0 {
		out.Percent = out.CompletedLessons * 100 / out.TotalLessons
	}
	return out, nil
}
