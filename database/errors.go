package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned by repositories when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate document")
)

// NewContext derives a context bounded by timeout from parent.
func NewContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

// TranslateError maps driver errors onto the package sentinels.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

// Paging converts a 1-based page and size into skip/limit values.
func Paging(page, size, maxSize int) (skip, limit int64) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if maxSize > 0 && size > maxSize {
		size = maxSize
	}
	return int64((page - 1) * size), int64(size)
}
