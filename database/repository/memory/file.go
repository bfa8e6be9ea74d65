package memoryRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"coursehub/database"
	"coursehub/models"
)

type FileRepo struct {
	mu    sync.Mutex
	files map[string]models.File
}

func NewFileRepo() *FileRepo {
	return &FileRepo{files: map[string]models.File{}}
}

func (r *FileRepo) Create(_ context.Context, f *models.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	r.files[f.ID] = *f
	return nil
}

func (r *FileRepo) Get(_ context.Context, id string) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &f, nil
}

func (r *FileRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return database.ErrNotFound
	}
	delete(r.files, id)
	return nil
}

func (r *FileRepo) List(_ context.Context, skip, limit int64) ([]models.File, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.File, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return window(out, skip, limit), int64(len(out)), nil
}
