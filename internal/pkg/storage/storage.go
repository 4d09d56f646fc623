package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage defines the minimal interface for file storage backends.
type Storage interface {
	// Save stores a file at the given path and returns an error on failure.
	Save(ctx context.Context, filePath string, reader io.Reader, contentType string) error

	// Delete removes a file by its path. Returns nil if file doesn't exist.
	Delete(ctx context.Context, filePath string) error

	// Exists reports whether a file is stored at the path.
	Exists(ctx context.Context, filePath string) (bool, error)

	// GetURL returns the public URL for a file given its logical path.
	GetURL(filePath string) string
}

// Config selects and configures a backend
type Config struct {
	Driver    string // local or s3
	LocalPath string
	BaseURL   string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// New returns the backend named by cfg.Driver
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.LocalPath, cfg.BaseURL)
	case "s3":
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
