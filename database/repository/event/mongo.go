package eventRepo

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

type MongoEventRepo struct {
	events        *mongo.Collection
	registrations *mongo.Collection
}

func NewMongoEventRepo(db *mongo.Database) EventRepository {
	repo := &MongoEventRepo{
		events:        db.Collection("events"),
		registrations: db.Collection("event_registrations"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("events: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoEventRepo) ensureIndexes() error {
	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "starts_at", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create event indexes: %w", err)
	}
	if _, err := r.registrations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("failed to create registration indexes: %w", err)
	}
	return nil
}

func (r *MongoEventRepo) Create(ctx context.Context, event *models.Event) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if _, err := r.events.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", database.TranslateError(err))
	}
	return nil
}

// Update rewrites the editable fields. RegisteredCount is owned by ReserveSeat/ReleaseSeat.
func (r *MongoEventRepo) Update(ctx context.Context, event *models.Event) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	event.UpdatedAt = time.Now()
	res, err := r.events.UpdateOne(ctx, bson.M{"id": event.ID}, bson.M{"$set": bson.M{
		"title":       event.Title,
		"description": event.Description,
		"location":    event.Location,
		"meeting_url": event.MeetingURL,
		"starts_at":   event.StartsAt,
		"ends_at":     event.EndsAt,
		"capacity":    event.Capacity,
		"updated_at":  event.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoEventRepo) Get(ctx context.Context, id string) (*models.Event, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var event models.Event
	if err := r.events.FindOne(ctx, bson.M{"id": id}).Decode(&event); err != nil {
		return nil, database.TranslateError(err)
	}
	return &event, nil
}

func (r *MongoEventRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	res, err := r.events.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	if _, err := r.registrations.DeleteMany(ctx, bson.M{"event_id": id}); err != nil {
		return fmt.Errorf("failed to drop registrations of event %s: %w", id, err)
	}
	return nil
}

func (r *MongoEventRepo) findEvents(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Event, error) {
	cursor, err := r.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func (r *MongoEventRepo) ListUpcoming(ctx context.Context, now time.Time, skip, limit int64) ([]models.Event, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}}).SetSkip(skip).SetLimit(limit)
	return r.findEvents(ctx, bson.M{"ends_at": bson.M{"$gt": now}}, opts)
}

func (r *MongoEventRepo) CountUpcoming(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()
	return r.events.CountDocuments(ctx, bson.M{"starts_at": bson.M{"$gt": now}})
}

func (r *MongoEventRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}})
	return r.findEvents(ctx, bson.M{"id": bson.M{"$in": ids}}, opts)
}

func (r *MongoEventRepo) ReserveSeat(ctx context.Context, eventID string, now time.Time) (bool, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":        eventID,
		"starts_at": bson.M{"$gt": now},
		"$or": bson.A{
			bson.M{"capacity": 0},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$registered_count", "$capacity"}}},
		},
	}
	res, err := r.events.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"registered_count": 1}})
	if err != nil {
		return false, fmt.Errorf("failed to reserve seat: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoEventRepo) ReleaseSeat(ctx context.Context, eventID string) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": eventID, "registered_count": bson.M{"$gt": 0}}
	if _, err := r.events.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"registered_count": -1}}); err != nil {
		return fmt.Errorf("failed to release seat: %w", err)
	}
	return nil
}

func (r *MongoEventRepo) InsertRegistration(ctx context.Context, reg *models.Registration) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.registrations.InsertOne(ctx, reg); err != nil {
		return database.TranslateError(err)
	}
	return nil
}

func (r *MongoEventRepo) DeleteRegistration(ctx context.Context, eventID, userID string) (bool, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.registrations.DeleteOne(ctx, bson.M{"event_id": eventID, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("failed to delete registration: %w", err)
	}
	return res.DeletedCount == 1, nil
}

func (r *MongoEventRepo) listRegistrations(ctx context.Context, filter bson.M) ([]models.Registration, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.registrations.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer cursor.Close(ctx)

	regs := []models.Registration{}
	if err := cursor.All(ctx, &regs); err != nil {
		return nil, fmt.Errorf("failed to decode registrations: %w", err)
	}
	return regs, nil
}

func (r *MongoEventRepo) ListRegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	return r.listRegistrations(ctx, bson.M{"user_id": userID})
}

func (r *MongoEventRepo) ListRegistrantIDs(ctx context.Context, eventID string) ([]string, error) {
	regs, err := r.listRegistrations(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.UserID)
	}
	return ids, nil
}
