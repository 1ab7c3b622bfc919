package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTypeFileParse is the single background task kind: parse one
// uploaded file.
const TaskTypeFileParse = "file:parse"

// ParsePayload is the task body. The job record in the store carries
// everything else; the task only names the job.
type ParsePayload struct {
	FileID string `json:"fileId"`
}

// Queue dispatches parse work without blocking the submitting request.
type Queue interface {
	EnqueueParse(ctx context.Context, fileID string) error
}

// AsynqQueue is the redis-backed Queue.
type AsynqQueue struct {
	client *asynq.Client
}

func NewAsynqQueue(opt asynq.RedisClientOpt) *AsynqQueue {
	return &AsynqQueue{client: asynq.NewClient(opt)}
}

// EnqueueParse enqueues exactly one parse task per job. The task id is
// the job id, so a duplicate dispatch for the same job is rejected by the
// queue rather than racing a second parser. Retries are disabled: a parse
// either finishes or records its own failed terminal state.
func (q *AsynqQueue) EnqueueParse(ctx context.Context, fileID string) error {
	payload, err := json.Marshal(ParsePayload{FileID: fileID})
	if err != nil {
		return fmt.Errorf("failed to marshal parse task: %w", err)
	}

	task := asynq.NewTask(TaskTypeFileParse, payload,
		asynq.TaskID(fileID),
		asynq.MaxRetry(0),
		asynq.Timeout(30*time.Minute),
	)

	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue parse task: %w", err)
	}
	return nil
}

func (q *AsynqQueue) Close() error {
	return q.client.Close()
}
