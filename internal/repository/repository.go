package repository

import (
	"context"

	"file-ingestion-service/internal/models"
)

// JobRepository is the persistent job store. Field-level partial reads and
// writes matter here: progress updates during a parse must not rewrite the
// parsed content, and listings must never load it.
type JobRepository interface {
	// Create persists a new job record.
	Create(ctx context.Context, job *models.IngestionJob) error

	// FindByID loads the full job, parsed content included.
	// Returns models.ErrNotFound for unknown ids.
	FindByID(ctx context.Context, id string) (*models.IngestionJob, error)

	// GetStatus reads only the status and progress fields.
	GetStatus(ctx context.Context, id string) (models.FileStatus, int, error)

	// List returns all job summaries, newest first, without parsed content.
	List(ctx context.Context) ([]models.JobSummary, error)

	// UpdateProgress writes only the in-flight mutable fields.
	UpdateProgress(ctx context.Context, id string, status models.FileStatus, progress int) error

	// Finalize writes the terminal state: status, progress, error and
	// parsed content.
	Finalize(ctx context.Context, job *models.IngestionJob) error

	// Delete removes the record and returns it so the caller can reclaim
	// the backing raw file. Returns models.ErrNotFound for unknown ids.
	Delete(ctx context.Context, id string) (*models.IngestionJob, error)
}
