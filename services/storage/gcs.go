package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"coursehub/config"
	"coursehub/utils"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage keeps objects in a Google Cloud Storage bucket and hands out V4 signed URLs.
type GCSStorage struct {
	client         *storage.Client
	bucketName     string
	serviceAccount *config.ServiceAccount
}

func NewGCSStorage(ctx context.Context, serviceAccountJSONPath, bucketName string) (*GCSStorage, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("gcs: bucket name not configured")
	}
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(serviceAccountJSONPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	sa, err := utils.LoadServiceAccount(serviceAccountJSONPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load service account for signing URLs: %w", err)
	}
	return &GCSStorage{client: client, bucketName: bucketName, serviceAccount: sa}, nil
}

func (s *GCSStorage) Driver() string { return DriverGCS }

func (s *GCSStorage) Upload(ctx context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	w := s.client.Bucket(s.bucketName).Object(key).NewWriter(ctx)
	w.ObjectAttrs.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}
	return key, nil
}

func (s *GCSStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Bucket(s.bucketName).Object(key).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *GCSStorage) DownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	url, err := storage.SignedURL(s.bucketName, key, &storage.SignedURLOptions{
		GoogleAccessID: s.serviceAccount.ClientEmail,
		PrivateKey:     []byte(strings.ReplaceAll(s.serviceAccount.PrivateKey, `\n`, "\n")),
		Method:         "GET",
		Scheme:         storage.SigningSchemeV4,
		Expires:        time.Now().Add(expires),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return url, nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}
