package purchaseRepo

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

type MongoPurchaseRepo struct {
	coll *mongo.Collection
}

func NewMongoPurchaseRepo(db *mongo.Database) PurchaseRepository {
	repo := &MongoPurchaseRepo{coll: db.Collection("purchases")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("purchases: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoPurchaseRepo) ensureIndexes() error {
	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoPurchaseRepo) Create(ctx context.Context, p *models.Purchase) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create purchase: %w", database.TranslateError(err))
	}
	return nil
}

func (r *MongoPurchaseRepo) findOne(ctx context.Context, filter bson.M) (*models.Purchase, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var p models.Purchase
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, database.TranslateError(err)
	}
	return &p, nil
}

func (r *MongoPurchaseRepo) GetByID(ctx context.Context, id string) (*models.Purchase, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoPurchaseRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Purchase, error) {
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

func (r *MongoPurchaseRepo) SetSessionID(ctx context.Context, id, sessionID string) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"session_id": sessionID,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to store session id on purchase %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoPurchaseRepo) Transition(ctx context.Context, id string, from []string, to string, fields bson.M) (bool, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to, "updated_at": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to move purchase %s to %s: %w", id, to, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoPurchaseRepo) HasCompleted(ctx context.Context, userID, courseID string) (bool, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{
		"user_id":   userID,
		"course_id": courseID,
		"status":    models.PurchaseStatusCompleted,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return n > 0, nil
}

func (r *MongoPurchaseRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Purchase, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer cursor.Close(ctx)

	purchases := []models.Purchase{}
	if err := cursor.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("failed to decode purchases: %w", err)
	}
	return purchases, nil
}

func (r *MongoPurchaseRepo) ListByUser(ctx context.Context, userID string) ([]models.Purchase, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *MongoPurchaseRepo) ListAll(ctx context.Context, skip, limit int64) ([]models.Purchase, int64, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count purchases: %w", err)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetSkip(skip).SetLimit(limit)
	purchases, err := r.find(ctx, bson.M{}, opts)
	return purchases, total, err
}

func (r *MongoPurchaseRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{"status": status})
}

func (r *MongoPurchaseRepo) Revenue(ctx context.Context) (int64, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.PurchaseStatusCompleted}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount_cents"}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode revenue: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
