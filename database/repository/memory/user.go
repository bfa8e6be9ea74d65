package memoryRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"coursehub/database"
	"coursehub/models"

	"go.mongodb.org/mongo-driver/bson"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: map[string]*models.User{}}
}

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return database.ErrDuplicate
		}
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *UserRepo) GetByIDWithProjection(ctx context.Context, id string, _ bson.M) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepo) UpdateSetDocument(_ context.Context, id string, fields bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return database.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "avatar_url":
			u.AvatarURL = v.(string)
		case "fcm_token":
			u.FCMToken = v.(string)
		case "token_hash":
			u.TokenHash = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "role":
			u.Role = v.(string)
		}
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepo) List(_ context.Context, skip, limit int64) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return window(all, skip, limit), int64(len(all)), nil
}

func (r *UserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if role == "" || u.Role == role {
			n++
		}
	}
	return n, nil
}
