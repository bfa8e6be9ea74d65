package courseRepo

import (
	"context"
	"fmt"
	"time"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoCourseRepo struct {
	courses *mongo.Collection
	lessons *mongo.Collection
}

func NewMongoCourseRepo(db *mongo.Database) CourseRepository {
	repo := &MongoCourseRepo{
		courses: db.Collection("courses"),
		lessons: db.Collection("lessons"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("courses: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoCourseRepo) CreateCourse(ctx context.Context, course *models.Course) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now
	if _, err := r.courses.InsertOne(ctx, course); err != nil {
		return fmt.Errorf("failed to create course: %w", database.TranslateError(err))
	}
	return nil
}

func (r *MongoCourseRepo) UpdateCourse(ctx context.Context, course *models.Course) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	course.UpdatedAt = time.Now()
	res, err := r.courses.ReplaceOne(ctx, bson.M{"id": course.ID}, course)
	if err != nil {
		return fmt.Errorf("failed to update course %s: %w", course.ID, database.TranslateError(err))
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoCourseRepo) findCourse(ctx context.Context, filter bson.M) (*models.Course, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var course models.Course
	if err := r.courses.FindOne(ctx, filter).Decode(&course); err != nil {
		return nil, database.TranslateError(err)
	}
	return &course, nil
}

func (r *MongoCourseRepo) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	return r.findCourse(ctx, bson.M{"id": id})
}

func (r *MongoCourseRepo) GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	return r.findCourse(ctx, bson.M{"slug": slug})
}

func (r *MongoCourseRepo) ListCourses(ctx context.Context, publishedOnly bool) ([]models.Course, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.courses.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, nil
}

func (r *MongoCourseRepo) CountCourses(ctx context.Context) (int64, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()
	return r.courses.CountDocuments(ctx, bson.M{})
}

func (r *MongoCourseRepo) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	if _, err := r.lessons.InsertOne(ctx, lesson); err != nil {
		return fmt.Errorf("failed to create lesson: %w", database.TranslateError(err))
	}
	return nil
}

func (r *MongoCourseRepo) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	lesson.UpdatedAt = time.Now()
	res, err := r.lessons.ReplaceOne(ctx, bson.M{"id": lesson.ID}, lesson)
	if err != nil {
		return fmt.Errorf("failed to update lesson %s: %w", lesson.ID, database.TranslateError(err))
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoCourseRepo) DeleteLesson(ctx context.Context, id string) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.lessons.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete lesson %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoCourseRepo) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var lesson models.Lesson
	if err := r.lessons.FindOne(ctx, bson.M{"id": id}).Decode(&lesson); err != nil {
		return nil, database.TranslateError(err)
	}
	return &lesson, nil
}

func (r *MongoCourseRepo) ListLessons(ctx context.Context, courseID string) ([]models.Lesson, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "created_at", Value: 1}})
	cursor, err := r.lessons.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer cursor.Close(ctx)

	lessons := []models.Lesson{}
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("failed to decode lessons: %w", err)
	}
	return lessons, nil
}

func (r *MongoCourseRepo) CountLessons(ctx context.Context, courseID string) (int64, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()
	return r.lessons.CountDocuments(ctx, bson.M{"course_id": courseID})
}
