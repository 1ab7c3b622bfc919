package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"file-ingestion-service/pkg/logger"
	"file-ingestion-service/pkg/storage/local"
	"file-ingestion-service/pkg/storage/minio"
	"file-ingestion-service/pkg/storage/s3"
)

// BackendType selects where raw uploads live.
type BackendType string

const (
	BackendLocal BackendType = "local"
	BackendMinio BackendType = "minio"
	BackendS3    BackendType = "s3"
)

// Storage holds the raw uploaded bytes for the lifetime of a job.
type Storage interface {
	// Store persists the reader under key and returns the stored key.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)
	// Get opens the stored object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the stored object.
	Delete(ctx context.Context, key string) error
	// CleanupBefore removes objects last modified before threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// LocalPather is implemented by backends whose objects are plain files on
// the local filesystem, so parsers can read them in place instead of
// spooling a copy.
type LocalPather interface {
	LocalPath(key string) (string, bool)
}

// NewStorage builds the configured backend.
func NewStorage(backend BackendType, log logger.Logger) (Storage, error) {
	switch backend {
	case BackendLocal:
		return local.GetClient(log)
	case BackendMinio:
		return minio.GetClient(log)
	case BackendS3:
		return s3.GetClient(log)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
