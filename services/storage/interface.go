package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

const (
	DriverCloudinary = "cloudinary"
	DriverMinio      = "minio"
	DriverGCS        = "gcs"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// StorageService stores the bytes of shared files. Keys are chosen by the caller;
// Upload returns the key the object can be addressed by afterwards.
type StorageService interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// DownloadURL returns a link that stops working after expires.
	DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
	Driver() string
}
