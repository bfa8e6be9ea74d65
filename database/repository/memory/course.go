package memoryRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"coursehub/database"
	"coursehub/models"
)

type CourseRepo struct {
	mu      sync.Mutex
	courses map[string]models.Course
	lessons map[string]models.Lesson
}

func NewCourseRepo() *CourseRepo {
	return &CourseRepo{courses: map[string]models.Course{}, lessons: map[string]models.Lesson{}}
}

func (r *CourseRepo) slugTaken(slug, exceptID string) bool {
	for _, c := range r.courses {
		if c.Slug == slug && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *CourseRepo) CreateCourse(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slugTaken(course.Slug, "") {
		return database.ErrDuplicate
	}
	now := time.Now()
	course.CreatedAt, course.UpdatedAt = now, now
	r.courses[course.ID] = *course
	return nil
}

func (r *CourseRepo) UpdateCourse(_ context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[course.ID]; !ok {
		return database.ErrNotFound
	}
	if r.slugTaken(course.Slug, course.ID) {
		return database.ErrDuplicate
	}
	course.UpdatedAt = time.Now()
	r.courses[course.ID] = *course
	return nil
}

func (r *CourseRepo) GetCourseByID(_ context.Context, id string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.courses[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &c, nil
}

func (r *CourseRepo) GetCourseBySlug(_ context.Context, slug string) (*models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.courses {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *CourseRepo) ListCourses(_ context.Context, publishedOnly bool) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Course{}
	for _, c := range r.courses {
		if publishedOnly && !c.Published {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CourseRepo) CountCourses(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.courses)), nil
}

func (r *CourseRepo) CreateLesson(_ context.Context, lesson *models.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	lesson.CreatedAt, lesson.UpdatedAt = now, now
	r.lessons[lesson.ID] = *lesson
	return nil
}

func (r *CourseRepo) UpdateLesson(_ context.Context, lesson *models.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lessons[lesson.ID]; !ok {
		return database.ErrNotFound
	}
	lesson.UpdatedAt = time.Now()
	r.lessons[lesson.ID] = *lesson
	return nil
}

func (r *CourseRepo) DeleteLesson(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lessons[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.lessons, id)
	return nil
}

func (r *CourseRepo) GetLesson(_ context.Context, id string) (*models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lessons[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &l, nil
}

func (r *CourseRepo) ListLessons(_ context.Context, courseID string) ([]models.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Lesson{}
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *CourseRepo) CountLessons(ctx context.Context, courseID string) (int64, error) {
	lessons, _ := r.ListLessons(ctx, courseID)
	return int64(len(lessons)), nil
}
