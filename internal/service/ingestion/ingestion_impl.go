package ingestion

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"file-ingestion-service/internal/models"
	"file-ingestion-service/internal/parser"
	"file-ingestion-service/internal/parser/strategy"
	"file-ingestion-service/internal/repository"
	"file-ingestion-service/pkg/logger"
	"file-ingestion-service/pkg/metrics"
	"file-ingestion-service/pkg/queue"
	"file-ingestion-service/pkg/storage"
)

// processingMessage is returned by content queries while a parse is still
// running or has failed.
const processingMessage = "File upload or processing in progress. Please try again later."

type IngestionService struct {
	repo    repository.JobRepository
	queue   queue.Queue
	storage storage.Storage
	factory *parser.Factory
	logger  logger.Logger
	config  *Config
}

type Config struct {
	MaxFileSize      int64
	AllowedMimeTypes []string
	SaveInterval     time.Duration
}

func NewService(
	repo repository.JobRepository,
	q queue.Queue,
	store storage.Storage,
	factory *parser.Factory,
	log logger.Logger,
	cfg *Config,
) Service {
	if cfg == nil {
		cfg = &Config{
			MaxFileSize: 50 * 1024 * 1024, // 50MB
			AllowedMimeTypes: []string{
				"text/csv",
				"application/vnd.ms-excel",
				"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				"application/pdf",
			},
			SaveInterval: strategy.DefaultSaveInterval,
		}
	}

	return &IngestionService{
		repo:    repo,
		queue:   q,
		storage: store,
		factory: factory,
		logger:  log,
		config:  cfg,
	}
}

// Submit validates the upload, stores the raw bytes, persists the job in
// processing state and dispatches the parse task. It returns before any
// parsing happens.
func (s *IngestionService) Submit(ctx context.Context, file io.Reader, filename, mimeType string, size int64) (*models.IngestionJob, error) {
	if file == nil || filename == "" {
		return nil, fmt.Errorf("%w: missing file", models.ErrValidation)
	}
	if err := s.validateUpload(mimeType, size); err != nil {
		s.logger.Warn("Upload rejected at intake",
			logger.String("filename", filename),
			logger.String("mimeType", mimeType),
			logger.Int64("size", size),
			logger.Error(err),
		)
		return nil, err
	}

	kind := parser.Detect(filename, mimeType)
	id := uuid.New().String()
	key := id + strings.ToLower(filepath.Ext(filename))

	storagePath, err := s.storage.Store(ctx, file, key)
	if err != nil {
		return nil, &models.StorageError{Op: "store upload", Err: err}
	}

	job := &models.IngestionJob{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		SizeBytes:   size,
		StoragePath: storagePath,
		Kind:        kind,
		Status:      models.StatusProcessing,
		Progress:    0,
		Content:     models.ParsedContent{Kind: kind},
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}
	metrics.IncSubmitted(string(kind))

	// A kind the detector cannot classify fails the job right here; no
	// strategy is ever invoked for it.
	if kind == models.KindUnknown {
		job.Status = models.StatusFailed
		job.Error = models.ErrUnsupportedFormat.Error()
		if err := s.repo.Finalize(ctx, job); err != nil {
			return nil, err
		}
		s.logger.Warn("Unsupported format, job failed without parsing",
			logger.String("fileId", job.ID),
			logger.String("filename", filename),
		)
		return job, nil
	}

	if err := s.queue.EnqueueParse(ctx, job.ID); err != nil {
		job.Status = models.StatusFailed
		job.Error = "failed to dispatch parse task"
		if ferr := s.repo.Finalize(ctx, job); ferr != nil {
			s.logger.Error("Failed to record dispatch failure",
				logger.String("fileId", job.ID),
				logger.Error(ferr),
			)
		}
		return nil, fmt.Errorf("failed to enqueue parse task: %w", err)
	}

	s.logger.Info("File submitted",
		logger.String("fileId", job.ID),
		logger.String("filename", filename),
		logger.String("kind", string(kind)),
		logger.Int64("size", size),
	)
	return job, nil
}

// SubmitBatch fans out over Submit with an errgroup, returning the jobs
// created so far alongside the first error.
func (s *IngestionService) SubmitBatch(ctx context.Context, files []*multipart.FileHeader) ([]*models.IngestionJob, error) {
	jobs := make([]*models.IngestionJob, 0, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, header := range files {
		header := header
		g.Go(func() error {
			f, err := header.Open()
			if err != nil {
				return fmt.Errorf("failed to open file %s: %w", header.Filename, err)
			}
			defer f.Close()

			job, err := s.Submit(ctx, f, header.Filename, header.Header.Get("Content-Type"), header.Size)
			if err != nil {
				return fmt.Errorf("failed to submit file %s: %w", header.Filename, err)
			}

			mu.Lock()
			jobs = append(jobs, job)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return jobs, err
	}
	return jobs, nil
}

func (s *IngestionService) GetStatus(ctx context.Context, id string) (*StatusView, error) {
	status, progress, err := s.repo.GetStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StatusView{FileID: id, Status: status, Progress: progress}, nil
}

func (s *IngestionService) GetContent(ctx context.Context, id string) (*ContentView, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if job.Status != models.StatusReady {
		return &ContentView{
			FileID:   job.ID,
			Ready:    false,
			Message:  processingMessage,
			Status:   job.Status,
			Progress: job.Progress,
		}, nil
	}

	return &ContentView{
		FileID:  job.ID,
		Ready:   true,
		Content: job.Content,
	}, nil
}

func (s *IngestionService) List(ctx context.Context) ([]models.JobSummary, error) {
	return s.repo.List(ctx)
}

// Delete removes the job record, then best-effort removes the backing raw
// file. A raw-file removal failure is logged, never surfaced.
func (s *IngestionService) Delete(ctx context.Context, id string) error {
	job, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if job.StoragePath != "" {
		if err := s.storage.Delete(ctx, job.StoragePath); err != nil {
			s.logger.Warn("Failed to remove raw file for deleted job",
				logger.String("fileId", id),
				logger.String("storagePath", job.StoragePath),
				logger.Error(err),
			)
		}
	}

	s.logger.Info("File deleted", logger.String("fileId", id))
	return nil
}

// HandleParse executes the parse for one job on the worker. The strategy
// owns the job's mutable fields until it returns; an escaped panic is
// converted into a forced failed transition instead of vanishing with the
// task.
func (s *IngestionService) HandleParse(ctx context.Context, fileID string) (err error) {
	job, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", fileID, err)
	}
	if job.Status.Terminal() {
		s.logger.Warn("Skipping parse for terminal job",
			logger.String("fileId", fileID),
			logger.String("status", string(job.Status)),
		)
		return nil
	}

	tr := strategy.NewTracker(job, s.repo, s.logger, s.config.SaveInterval)

	strat, ferr := s.factory.Get(job.Kind)
	if ferr != nil {
		return tr.Fail(ctx, ferr)
	}

	path, cleanup, perr := s.localPath(ctx, job)
	if perr != nil {
		return tr.Fail(ctx, &models.StorageError{Op: "read upload", Err: perr})
	}
	defer cleanup()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Parse panicked",
				logger.String("fileId", fileID),
				logger.Any("panic", r),
				logger.Stack(),
			)
			err = tr.Fail(ctx, fmt.Errorf("internal error while parsing file"))
		}
		metrics.ObserveParse(string(job.Kind), string(job.Status), time.Since(start).Seconds())
	}()

	err = strat.Parse(ctx, path, tr)

	s.logger.Info("Parse finished",
		logger.String("fileId", fileID),
		logger.String("kind", string(job.Kind)),
		logger.String("status", string(job.Status)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return err
}

// localPath yields a readable filesystem path for the job's raw bytes.
// Local backends serve their file in place; remote backends are spooled
// to a temp file that cleanup removes.
func (s *IngestionService) localPath(ctx context.Context, job *models.IngestionJob) (string, func(), error) {
	if lp, ok := s.storage.(storage.LocalPather); ok {
		if path, ok := lp.LocalPath(job.StoragePath); ok {
			return path, func() {}, nil
		}
	}

	rc, err := s.storage.Get(ctx, job.StoragePath)
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	tmp, err := os.CreateTemp("", "ingest-*"+filepath.Ext(job.StoragePath))
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

func (s *IngestionService) validateUpload(mimeType string, size int64) error {
	if size > s.config.MaxFileSize {
		return fmt.Errorf("%w (%d bytes, limit %d)", models.ErrPayloadTooLarge, size, s.config.MaxFileSize)
	}

	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	for _, allowed := range s.config.AllowedMimeTypes {
		if mt == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, mimeType)
}
