package strategy

import (
	"context"

	"file-ingestion-service/internal/models"
)

// Strategy is the format-specific parse algorithm. By the time Parse
// returns, the strategy has driven progress to its terminal value, set
// status=ready or status=failed on the job, and persisted the terminal
// state through the tracker (bypassing the throttle). The returned error
// mirrors the failure for the caller's logs; it is already captured in
// the job record.
type Strategy interface {
	// Kind reports which detected file kind this strategy handles.
	Kind() models.FileKind

	// Parse consumes the file at path and mutates the job held by tr.
	Parse(ctx context.Context, path string, tr *Tracker) error
}

// Saver is the narrow persistence surface a running parse needs: a cheap
// partial write for in-flight progress, and a full write for terminal
// transitions. Implemented by the job repository.
type Saver interface {
	UpdateProgress(ctx context.Context, id string, status models.FileStatus, progress int) error
	Finalize(ctx context.Context, job *models.IngestionJob) error
}
