package storage

import (
	"context"
	"fmt"

	"coursehub/config"
	"coursehub/utils"

	"go.uber.org/zap"
)

// NewFromConfig builds the driver selected by STORAGE_DRIVER.
func NewFromConfig(ctx context.Context, cfg config.Config) (StorageService, error) {
	var (
		svc StorageService
		err error
	)
	switch cfg.StorageDriver {
	case DriverCloudinary:
		cld, cerr := utils.NewCloudinaryClient()
		if cerr != nil {
			return nil, cerr
		}
		svc = NewCloudinaryStorage(cld)
	case DriverMinio, "":
		svc, err = NewMinioStorage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	case DriverGCS:
		svc, err = NewGCSStorage(ctx, cfg.GoogleCredentialsFile, cfg.GCSBucket)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("storage driver ready", zap.String("driver", svc.Driver()))
	return svc, nil
}
