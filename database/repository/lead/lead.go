package leadRepo

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

type LeadRepository interface {
	// Upsert stores the lead keyed by email and reports whether it was new.
	Upsert(ctx context.Context, lead *models.Lead) (bool, error)
}

type MongoLeadRepo struct {
	coll *mongo.Collection
}

func NewMongoLeadRepo(db *mongo.Database) LeadRepository {
	repo := &MongoLeadRepo{coll: db.Collection("leads")}
	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		utils.GetLogger().Error("leads: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoLeadRepo) Upsert(ctx context.Context, lead *models.Lead) (bool, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$setOnInsert": bson.M{
		"id":         lead.ID,
		"name":       lead.Name,
		"source":     lead.Source,
		"created_at": lead.CreatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"email": lead.Email}, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to store lead: %w", err)
	}
	return res.UpsertedCount == 1, nil
}
