package ingestion

import (
	"context"
	"io"
	"mime/multipart"

	"file-ingestion-service/internal/models"
)

// StatusView is the polling response for one job.
type StatusView struct {
	FileID   string            `json:"fileId"`
	Status   models.FileStatus `json:"status"`
	Progress int               `json:"progress"`
}

// ContentView is the content query result: the parsed content once the
// job is ready, otherwise the progress view with a hint message.
type ContentView struct {
	FileID   string               `json:"fileId"`
	Ready    bool                 `json:"-"`
	Content  models.ParsedContent `json:"content"`
	Message  string               `json:"-"`
	Status   models.FileStatus    `json:"-"`
	Progress int                  `json:"-"`
}

// Service is the ingestion orchestrator. Submit returns as soon as the
// job record exists; parsing happens on the worker via HandleParse.
type Service interface {
	// Submit validates the upload, stores the raw bytes, creates the job
	// in processing state and dispatches a parse task.
	Submit(ctx context.Context, file io.Reader, filename, mimeType string, size int64) (*models.IngestionJob, error)

	// SubmitBatch submits several uploads concurrently.
	SubmitBatch(ctx context.Context, files []*multipart.FileHeader) ([]*models.IngestionJob, error)

	// GetStatus returns status and progress for one job.
	GetStatus(ctx context.Context, id string) (*StatusView, error)

	// GetContent returns the parsed content when ready, or the progress
	// view otherwise.
	GetContent(ctx context.Context, id string) (*ContentView, error)

	// List returns job summaries, newest first, without parsed content.
	List(ctx context.Context) ([]models.JobSummary, error)

	// Delete removes the job and best-effort removes its raw file.
	Delete(ctx context.Context, id string) error

	// HandleParse runs the parse task for one job. Called by the worker.
	HandleParse(ctx context.Context, fileID string) error
}
