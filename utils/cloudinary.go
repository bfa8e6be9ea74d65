package utils

import (
	"fmt"

	"coursehub/config"

	"github.com/cloudinary/cloudinary-go/v2"
)

// NewCloudinaryClient builds a Cloudinary client from the CLOUDINARY_* settings.
func NewCloudinaryClient() (*cloudinary.Cloudinary, error) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("utils.NewCloudinaryClient: failed to initialize Cloudinary: %w", err)
	}
	return cld, nil
}
