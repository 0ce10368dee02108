package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/templui/hoaxify/internal/config"
)

// Storage persists uploaded binary content under slash-separated keys.
type Storage interface {
	// Save stores the content read from r at path, replacing any existing file
	Save(ctx context.Context, path string, r io.Reader) error

	// Delete removes the file at path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
}

// New builds the storage backend selected by STORAGE_DRIVER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "local", "":
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir)
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
