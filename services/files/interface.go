package files

import (
	"context"
	"errors"
	"io"
	"time"

	fileRepo "coursehub/database/repository/file"
	"coursehub/models"
	"coursehub/services/storage"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTooLarge       = errors.New("file exceeds the upload limit")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrForbidden          = errors.New("only the owner or an admin can delete this file")
	ErrStorageUnavailable = errors.New("file storage unavailable")
)

const (
	DefaultLinkExpiry = 15 * time.Minute
	MinLinkExpiry     = time.Minute
	MaxLinkExpiry     = 24 * time.Hour
)

type UploadInput struct {
	Name   string
	Size   int64
	Reader io.Reader
}

type FilePage struct {
	Files    []models.File `json:"files"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

type DownloadLink struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type FileService interface {
	Upload(ctx context.Context, actor models.Actor, in UploadInput) (*models.File, error)
	List(ctx context.Context, page, pageSize int) (*FilePage, error)
	Get(ctx context.Context, fileID string) (*models.File, error)
	DownloadURL(ctx context.Context, fileID string, expires time.Duration) (*DownloadLink, error)
	Delete(ctx context.Context, actor models.Actor, fileID string) error
}

type DefaultFileService struct {
	Repo     fileRepo.FileRepository
	Storage  storage.StorageService
	MaxBytes int64
}
