package models

import "time"

// Post is a community feed entry.
type Post struct {
	ID           string    `bson:"id" json:"id"`
	AuthorID     string    `bson:"author_id" json:"authorId"`
	AuthorName   string    `bson:"author_name" json:"authorName"`
	Body         string    `bson:"body" json:"body"`
	FileID       string    `bson:"file_id,omitempty" json:"fileId,omitempty"`
	LikeCount    int       `bson:"like_count" json:"likeCount"`
	CommentCount int       `bson:"comment_count" json:"commentCount"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

type Comment struct {
	ID         string    `bson:"id" json:"id"`
	PostID     string    `bson:"post_id" json:"postId"`
	AuthorID   string    `bson:"author_id" json:"authorId"`
	AuthorName string    `bson:"author_name" json:"authorName"`
	Body       string    `bson:"body" json:"body"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

type Like struct {
	PostID    string    `bson:"post_id" json:"postId"`
	UserID    string    `bson:"user_id" json:"userId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// FeedPage is one page of the community feed.
type FeedPage struct {
	Posts    []Post `json:"posts"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	HasMore  bool   `json:"hasMore"`
}

type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

type PostRequest struct {
	Body   string `json:"body" validate:"required,max=5000"`
	FileID string `json:"fileId"`
}

type CommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}
