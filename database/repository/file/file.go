package fileRepo

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

// FileRepository stores metadata of shared uploads.
type FileRepository interface {
	Create(ctx context.Context, f *models.File) error
	Get(ctx context.Context, id string) (*models.File, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip, limit int64) ([]models.File, int64, error)
}

type MongoFileRepo struct {
	coll *mongo.Collection
}

func NewMongoFileRepo(db *mongo.Database) FileRepository {
	repo := &MongoFileRepo{coll: db.Collection("files")}

	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		utils.GetLogger().Error("files: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoFileRepo) Create(ctx context.Context, f *models.File) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("failed to save file metadata: %w", database.TranslateError(err))
	}
	return nil
}

func (r *MongoFileRepo) Get(ctx context.Context, id string) (*models.File, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var f models.File
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&f); err != nil {
		return nil, database.TranslateError(err)
	}
	return &f, nil
}

func (r *MongoFileRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoFileRepo) List(ctx context.Context, skip, limit int64) ([]models.File, int64, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count files: %w", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(skip).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	files := []models.File{}
	if err := cursor.All(ctx, &files); err != nil {
		return nil, 0, fmt.Errorf("failed to decode files: %w", err)
	}
	return files, total, nil
}
