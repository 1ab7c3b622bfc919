package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"file-ingestion-service/internal/service/ingestion"
	"file-ingestion-service/pkg/logger"
	"file-ingestion-service/pkg/queue"
)

// FileWorker consumes parse tasks and hands them to the ingestion
// service. Parse outcomes live in the job record; a returned error here
// only marks the task itself, and retries stay disabled at enqueue time.
type FileWorker struct {
	BaseWorker
	service ingestion.Service
}

func NewFileWorker(cfg *Config, service ingestion.Service, log logger.Logger) (*FileWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
		},
	)

	w := &FileWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		service: service,
	}

	w.mux.HandleFunc(queue.TaskTypeFileParse, w.handleFileParse)
	return w, nil
}

func (w *FileWorker) handleFileParse(ctx context.Context, t *asynq.Task) error {
	var payload queue.ParsePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("Failed to unmarshal parse task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal parse task: %w", err)
	}
	if payload.FileID == "" {
		return fmt.Errorf("invalid parse task: missing file id")
	}

	w.logger.Info("Processing parse task", logger.String("fileId", payload.FileID))
	return w.service.HandleParse(ctx, payload.FileID)
}

func (w *FileWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
