package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"coursehub/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryDownloadURL(t *testing.T) {
	cld, err := cloudinary.NewFromParams("demo", "key", "secret")
	require.NoError(t, err)
	store := NewCloudinaryStorage(cld)

	link, err := store.DownloadURL(context.Background(), "files/2026/10/abc.pdf", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "api.cloudinary.com", u.Host)
	assert.Equal(t, "/v1_1/demo/raw/download", u.Path)
	q := u.Query()
	assert.Equal(t, "files/2026/10/abc.pdf", q.Get("public_id"))
	assert.Equal(t, "authenticated", q.Get("type"))
	assert.Equal(t, "key", q.Get("api_key"))
	assert.NotEmpty(t, q.Get("expires_at"))
	assert.NotEmpty(t, q.Get("signature"))
	assert.NotContains(t, link, "secret")
}

func TestNewFromConfigUnknownDriver(t *testing.T) {
	_, err := NewFromConfig(context.Background(), config.Config{StorageDriver: "floppy"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNewFromConfigCloudinaryNeedsCredentials(t *testing.T) {
	config.AppConfig = config.Config{}
	_, err := NewFromConfig(context.Background(), config.Config{StorageDriver: DriverCloudinary})
	assert.Error(t, err)
}
