package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"coursehub/database"
	communityRepo "coursehub/database/repository/community"
	"coursehub/models"
)

type CommunityRepo struct {
	mu       sync.Mutex
	posts    map[string]models.Post
	comments map[string]models.Comment
	likes    map[string]models.Like
	seq      int64
}

func NewCommunityRepo() *CommunityRepo {
	return &CommunityRepo{
		posts:    map[string]models.Post{},
		comments: map[string]models.Comment{},
		likes:    map[string]models.Like{},
	}
}

// tick hands out strictly increasing timestamps so ordering is stable within a test.
func (r *CommunityRepo) tick() time.Time {
	r.seq++
	return time.Unix(0, 0).Add(time.Duration(r.seq) * time.Millisecond)
}

func (r *CommunityRepo) CreatePost(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	at := r.tick()
	post.CreatedAt, post.UpdatedAt = at, at
	r.posts[post.ID] = *post
	return nil
}

func (r *CommunityRepo) GetPost(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &p, nil
}

func (r *CommunityRepo) ListPosts(_ context.Context, skip, limit int64) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, skip, limit), nil
}

func (r *CommunityRepo) DeletePost(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.posts, id)
	for k, c := range r.comments {
		if c.PostID == id {
			delete(r.comments, k)
		}
	}
	for k, l := range r.likes {
		if l.PostID == id {
			delete(r.likes, k)
		}
	}
	return nil
}

func (r *CommunityRepo) IncCounter(_ context.Context, postID, field string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return 0, database.ErrNotFound
	}
	var value int
	switch field {
	case communityRepo.CounterLikes:
		p.LikeCount += delta
		value = p.LikeCount
	case communityRepo.CounterComments:
		p.CommentCount += delta
		value = p.CommentCount
	default:
		return 0, fmt.Errorf("unknown counter %q", field)
	}
	r.posts[postID] = p
	return value, nil
}

func (r *CommunityRepo) CountPosts(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.posts)), nil
}

func (r *CommunityRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.CreatedAt = r.tick()
	r.comments[comment.ID] = *comment
	return nil
}

func (r *CommunityRepo) GetComment(_ context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &c, nil
}

func (r *CommunityRepo) DeleteComment(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *CommunityRepo) ListComments(_ context.Context, postID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func likeKey(postID, userID string) string { return postID + "|" + userID }

func (r *CommunityRepo) InsertLike(_ context.Context, like *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey(like.PostID, like.UserID)
	if _, ok := r.likes[key]; ok {
		return database.ErrDuplicate
	}
	r.likes[key] = *like
	return nil
}

func (r *CommunityRepo) DeleteLike(_ context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := likeKey(postID, userID)
	if _, ok := r.likes[key]; !ok {
		return false, nil
	}
	delete(r.likes, key)
	return true, nil
}
