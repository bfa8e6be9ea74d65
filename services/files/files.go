package files

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"coursehub/database"
	"coursehub/models"
	"coursehub/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClampExpiry applies the default and bounds for download link lifetimes.
func ClampExpiry(d time.Duration) time.Duration {
	switch {
	case d <= 0:
		return DefaultLinkExpiry
	case d < MinLinkExpiry:
		return MinLinkExpiry
	case d > MaxLinkExpiry:
		return MaxLinkExpiry
	}
	return d
}

func cleanName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	if len(name) > 200 {
		name = name[len(name)-200:]
	}
	return name
}

func (s *DefaultFileService) Upload(ctx context.Context, actor models.Actor, in UploadInput) (*models.File, error) {
	if s.Storage == nil {
		return nil, ErrStorageUnavailable
	}
	if s.MaxBytes > 0 && in.Size > s.MaxBytes {
		return nil, ErrFileTooLarge
	}

	name := cleanName(in.Name)
	sniffed, body, err := sniff(in.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	contentType := refine(sniffed, name)
	if !Allowed(contentType) {
		return nil, ErrFileTypeNotAllowed
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	key := fmt.Sprintf("files/%s/%s%s", now.Format("2006/01"), id, strings.ToLower(extension(name)))

	storedKey, err := s.Storage.Upload(ctx, key, body, in.Size, contentType)
	if err != nil {
		utils.GetLogger().Error("upload to storage failed", zap.String("key", key), zap.Error(err))
		return nil, ErrStorageUnavailable
	}

	f := &models.File{
		ID:          id,
		OwnerID:     actor.UserID,
		Name:        name,
		ContentType: contentType,
		Size:        in.Size,
		StorageKey:  storedKey,
		Driver:      s.Storage.Driver(),
		CreatedAt:   now,
	}
	if err := s.Repo.Create(ctx, f); err != nil {
		if derr := s.Storage.Delete(ctx, storedKey); derr != nil {
			utils.GetLogger().Warn("orphan object left in storage", zap.String("key", storedKey), zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}
	utils.GetLogger().Info("file uploaded",
		zap.String("fileID", f.ID), zap.String("ownerID", f.OwnerID), zap.Int64("size", f.Size))
	return f, nil
}

func (s *DefaultFileService) List(ctx context.Context, page, pageSize int) (*FilePage, error) {
	skip, limit := database.Paging(page, pageSize, 100)
	files, total, err := s.Repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return &FilePage{Files: files, Total: total, Page: int(skip/limit) + 1, PageSize: int(limit)}, nil
}

func (s *DefaultFileService) Get(ctx context.Context, fileID string) (*models.File, error) {
	f, err := s.Repo.Get(ctx, fileID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *DefaultFileService) DownloadURL(ctx context.Context, fileID string, expires time.Duration) (*DownloadLink, error) {
	f, err := s.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if s.Storage == nil {
		return nil, ErrStorageUnavailable
	}
	expires = ClampExpiry(expires)
	url, err := s.Storage.DownloadURL(ctx, f.StorageKey, expires)
	if err != nil {
		utils.GetLogger().Error("signing download url failed", zap.String("fileID", f.ID), zap.Error(err))
		return nil, ErrStorageUnavailable
	}
	return &DownloadLink{URL: url, ExpiresAt: time.Now().Add(expires)}, nil
}

// Delete removes the object first; metadata stays when storage fails so the call can be retried.
func (s *DefaultFileService) Delete(ctx context.Context, actor models.Actor, fileID string) error {
	f, err := s.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if f.OwnerID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}
	if s.Storage == nil {
		return ErrStorageUnavailable
	}
	if err := s.Storage.Delete(ctx, f.StorageKey); err != nil {
		utils.GetLogger().Error("storage delete failed", zap.String("fileID", f.ID), zap.Error(err))
		return ErrStorageUnavailable
	}
	if err := s.Repo.Delete(ctx, fileID); err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}
	return nil
}
