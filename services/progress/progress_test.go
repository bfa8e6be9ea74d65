package progress

import (
	"context"
	"math"
	"testing"

	memoryRepo "coursehub/database/repository/memory"
	"coursehub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type owners map[string]bool

func (o owners) HasAccess(_ context.Context, userID, courseID string) (bool, error) {
	return o[userID+"|"+courseID], nil
}

func newService(t *testing.T) *DefaultProgressService {
	t.Helper()
	ctx := context.Background()
	courses := memoryRepo.NewCourseRepo()
	require.NoError(t, courses.CreateCourse(ctx, &models.Course{ID: "c1", Slug: "go", Title: "Go", Published: true}))
	require.NoError(t, courses.CreateLesson(ctx, &models.Lesson{ID: "l1", CourseID: "c1", DurationSeconds: 200, Position: 1}))
	require.NoError(t, courses.CreateLesson(ctx, &models.Lesson{ID: "l2", CourseID: "c1", DurationSeconds: 300, Position: 2}))
	require.NoError(t, courses.CreateLesson(ctx, &models.Lesson{ID: "l3", CourseID: "c1", DurationSeconds: 0, Position: 3}))
	require.NoError(t, courses.CreateLesson(ctx, &models.Lesson{ID: "free", CourseID: "c1", DurationSeconds: 100, Position: 0, FreePreview: true}))

	return &DefaultProgressService{
		Repo:    memoryRepo.NewProgressRepo(),
		Courses: courses,
		Access:  owners{"u1|c1": true},
	}
}

func TestPercent(t *testing.T) {
	cases := []struct {
		pos, dur, want int
	}{
		{0, 100, 0},
		{-5, 100, 0},
		{50, 100, 50},
		{199, 200, 99},
		{1, 3, 33},
		{500, 100, 100},
		{10, 0, 0},
		{math.MaxInt - 1, math.MaxInt, 99},
		{math.MaxInt / 2, math.MaxInt, 49},
		{math.MaxInt, 100, 100},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Percent(c.pos, c.dur), "Percent(%d, %d)", c.pos, c.dur)
	}
}

func TestRecordProgressNeverDecreases(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	p, err := s.RecordProgress(ctx, "u1", false, "l1", models.ProgressUpdateRequest{PositionSeconds: 100})
	require.NoError(t, err)
	assert.Equal(t, 50, p.Percent)
	assert.False(t, p.Completed)

	p, err = s.RecordProgress(ctx, "u1", false, "l1", models.ProgressUpdateRequest{PositionSeconds: 20, DurationSeconds: 200})
	require.NoError(t, err)
	assert.Equal(t, 50, p.Percent, "percent keeps its high-water mark")
	assert.Equal(t, 20, p.PositionSeconds, "position is the latest resume point")
}

func TestRecordProgressCompletesAtThreshold(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	p, err := s.RecordProgress(ctx, "u1", false, "l1", models.ProgressUpdateRequest{PositionSeconds: 179})
	require.NoError(t, err)
	assert.Equal(t, 89, p.Percent)
	assert.False(t, p.Completed)

	p, err = s.RecordProgress(ctx, "u1", false, "l1", models.ProgressUpdateRequest{PositionSeconds: 180})
	require.NoError(t, err)
	assert.True(t, p.Completed)
	require.NotNil(t, p.CompletedAt)
	first := *p.CompletedAt

	p, err = s.RecordProgress(ctx, "u1", false, "l1", models.ProgressUpdateRequest{PositionSeconds: 5})
	require.NoError(t, err)
	assert.True(t, p.Completed, "completion sticks")
	assert.Equal(t, first, *p.CompletedAt)
}

func TestCustomThreshold(t *testing.T) {
	s := newService(t)
	s.CompletionThreshold = 50

	p, err := s.RecordProgress(context.Background(), "u1", false, "l2", models.ProgressUpdateRequest{PositionSeconds: 150})
	require.NoError(t, err)
	assert.True(t, p.Completed)
}

func TestRecordProgressAccess(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.RecordProgress(ctx, "stranger", false, "l1", models.ProgressUpdateRequest{PositionSeconds: 10})
	assert.ErrorIs(t, err, ErrNoAccess)

	_, err = s.RecordProgress(ctx, "stranger", false, "free", models.ProgressUpdateRequest{PositionSeconds: 10})
	assert.NoError(t, err)

	_, err = s.RecordProgress(ctx, "boss", true, "l1", models.ProgressUpdateRequest{PositionSeconds: 10})
	assert.NoError(t, err)

	_, err = s.RecordProgress(ctx, "u1", false, "nope", models.ProgressUpdateRequest{})
	assert.ErrorIs(t, err, ErrLessonNotFound)

	_, err = s.RecordProgress(ctx, "u1", false, "l3", models.ProgressUpdateRequest{PositionSeconds: 10})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestMarkCompleteAndCourseProgress(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	_, err := s.RecordProgress(ctx, "u1", false, "l2", models.ProgressUpdateRequest{PositionSeconds: 30})
	require.NoError(t, err)
	p, err := s.MarkComplete(ctx, "u1", false, "l1")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Percent)
	assert.True(t, p.Completed)

	cp, err := s.GetCourseProgress(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 4, cp.TotalLessons)
	assert.Equal(t, 1, cp.CompletedLessons)
	assert.Equal(t, 25, cp.Percent)
	assert.Len(t, cp.Lessons, 2)

	_, err = s.GetCourseProgress(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestGetLessonProgressDefaultsToZero(t *testing.T) {
	s := newService(t)
	p, err := s.GetLessonProgress(context.Background(), "u1", "l2")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Percent)
	assert.Equal(t, "c1", p.CourseID)

	_, err = s.GetLessonProgress(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, ErrLessonNotFound)
}
