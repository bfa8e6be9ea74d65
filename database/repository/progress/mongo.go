package progressRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoProgressRepo struct {
	coll *mongo.Collection
}

func NewMongoProgressRepo(db *mongo.Database) ProgressRepository {
	repo := &MongoProgressRepo{coll: db.Collection("progress")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("progress: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoProgressRepo) ensureIndexes() error {
	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "lesson_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoProgressRepo) Upsert(ctx context.Context, u ProgressUpdate) (*models.Progress, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"user_id": u.UserID, "lesson_id": u.LessonID}
	update := bson.M{
		"$max": bson.M{"percent": u.Percent},
		"$set": bson.M{
			"position_seconds": u.PositionSeconds,
			"updated_at":       u.At,
		},
		"$setOnInsert": bson.M{
			"id":        uuid.New().String(),
			"course_id": u.CourseID,
			"completed": false,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var p models.Progress
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if mongo.IsDuplicateKeyError(err) {
		// Two first reports raced on the unique index; the loser now updates the winner's row.
		err = r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", database.TranslateError(err))
	}
	return &p, nil
}

func (r *MongoProgressRepo) MarkCompleted(ctx context.Context, userID, lessonID string, at time.Time) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID, "lesson_id": lessonID, "completed": false}
	_, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"completed":    true,
		"completed_at": at,
	}})
	if err != nil {
		return fmt.Errorf("failed to mark lesson completed: %w", err)
	}
	return nil
}

func (r *MongoProgressRepo) Get(ctx context.Context, userID, lessonID string) (*models.Progress, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var p models.Progress
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "lesson_id": lessonID}).Decode(&p)
	if err != nil {
		err = database.TranslateError(err)
		if errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}
	return &p, nil
}

func (r *MongoProgressRepo) ListByCourse(ctx context.Context, userID, courseID string) ([]models.Progress, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID, "course_id": courseID})
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer cursor.Close(ctx)

	out := []models.Progress{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return out, nil
}
