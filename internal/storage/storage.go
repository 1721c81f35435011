// Package storage uploads exported files to a local directory or an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/koba/xcellab/internal/config"
)

// ErrUploadFailed wraps every upload failure
var ErrUploadFailed = errors.New("upload failed")

// ObjectStorage abstracts where exported files end up
type ObjectStorage interface {
	// Upload copies the file at localPath to objectPath.
	Upload(ctx context.Context, localPath, objectPath string) error

	// URL describes where objectPath lives, for status output.
	URL(objectPath string) string
}

// New builds the storage configured in cfg. An empty type means uploads are
// disabled and New returns nil.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "local":
		return NewLocalStorage(cfg.Path)
	case "s3":
		return NewS3Storage(ctx, cfg.S3.Bucket, S3Config{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ObjectKey names an uploaded export: prefix/generationID/basename
func ObjectKey(prefix, generationID, localPath string) string {
	return path.Join(prefix, generationID, filepath.Base(localPath))
}
