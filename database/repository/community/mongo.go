package communityRepo

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

type MongoCommunityRepo struct {
	posts    *mongo.Collection
	comments *mongo.Collection
	likes    *mongo.Collection
}

func NewMongoCommunityRepo(db *mongo.Database) CommunityRepository {
	repo := &MongoCommunityRepo{
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
		likes:    db.Collection("likes"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("community: failed to create indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoCommunityRepo) ensureIndexes() error {
	ctx, cancel := database.NewContext(context.Background(), 10*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	specs := map[*mongo.Collection][]mongo.IndexModel{
		r.posts: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		r.comments: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		r.likes: {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}}, Options: unique},
		},
	}
	for coll, idx := range specs {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll.Name(), err)
		}
	}
	return nil
}

func (r *MongoCommunityRepo) CreatePost(ctx context.Context, post *models.Post) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", database.TranslateError(err))
	}
	return nil
}

func (r *MongoCommunityRepo) GetPost(ctx context.Context, id string) (*models.Post, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var post models.Post
	if err := r.posts.FindOne(ctx, bson.M{"id": id}).Decode(&post); err != nil {
		return nil, database.TranslateError(err)
	}
	return &post, nil
}

func (r *MongoCommunityRepo) ListPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

func (r *MongoCommunityRepo) DeletePost(ctx context.Context, id string) error {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	res, err := r.posts.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	if _, err := r.comments.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		utils.GetLogger().Warn("community: orphaned comments left behind", zap.String("postID", id), zap.Error(err))
	}
	if _, err := r.likes.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		utils.GetLogger().Warn("community: orphaned likes left behind", zap.String("postID", id), zap.Error(err))
	}
	return nil
}

func (r *MongoCommunityRepo) IncCounter(ctx context.Context, postID, field string, delta int) (int, error) {
	if field != CounterLikes && field != CounterComments {
		return 0, fmt.Errorf("unknown counter %q", field)
	}
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.posts.FindOneAndUpdate(ctx, bson.M{"id": postID}, bson.M{"$inc": bson.M{field: delta}}, opts).Decode(&post)
	if err != nil {
		return 0, database.TranslateError(err)
	}
	if field == CounterLikes {
		return post.LikeCount, nil
	}
	return post.CommentCount, nil
}

func (r *MongoCommunityRepo) CountPosts(ctx context.Context) (int64, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()
	return r.posts.CountDocuments(ctx, bson.M{})
}

func (r *MongoCommunityRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.comments.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to create comment: %w", database.TranslateError(err))
	}
	return nil
}

func (r *MongoCommunityRepo) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	var comment models.Comment
	if err := r.comments.FindOne(ctx, bson.M{"id": id}).Decode(&comment); err != nil {
		return nil, database.TranslateError(err)
	}
	return &comment, nil
}

func (r *MongoCommunityRepo) DeleteComment(ctx context.Context, id string) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.comments.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *MongoCommunityRepo) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	ctx, cancel := database.NewContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.comments.Find(ctx, bson.M{"post_id": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

func (r *MongoCommunityRepo) InsertLike(ctx context.Context, like *models.Like) error {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.likes.InsertOne(ctx, like); err != nil {
		return database.TranslateError(err)
	}
	return nil
}

func (r *MongoCommunityRepo) DeleteLike(ctx context.Context, postID, userID string) (bool, error) {
	ctx, cancel := database.NewContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.likes.DeleteOne(ctx, bson.M{"post_id": postID, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}
	return res.DeletedCount == 1, nil
}
