package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage uploads as raw authenticated assets so links must be signed.
type CloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cld *cloudinary.Cloudinary) *CloudinaryStorage {
	return &CloudinaryStorage{cld: cld}
}

func (s *CloudinaryStorage) Driver() string { return DriverCloudinary }

func (s *CloudinaryStorage) Upload(ctx context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     key,
		ResourceType: "raw",
		Type:         "authenticated",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("cloudinary: no public ID returned")
	}
	return result.PublicID, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     key,
		ResourceType: "raw",
		Type:         "authenticated",
	})
	if err != nil {
		return fmt.Errorf("cloudinary: failed to delete file: %w", err)
	}
	return nil
}

// DownloadURL returns a signed private download link that stops working at the expiry.
func (s *CloudinaryStorage) DownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	exp := time.Now().Add(expires)
	link, err := s.cld.Upload.PrivateDownloadURL(uploader.PrivateDownloadURLParams{
		PublicID:     key,
		ResourceType: "raw",
		DeliveryType: "authenticated",
		ExpiresAt:    &exp,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary: failed to sign download link: %w", err)
	}
	return link, nil
}
