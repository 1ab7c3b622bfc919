package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"file-ingestion-service/internal/models"
	"file-ingestion-service/pkg/logger"
)

const (
	keyPrefix = "file:"
	indexKey  = "files:index"
)

// Hash fields of one job record.
const (
	fieldFilename    = "filename"
	fieldMimeType    = "mime_type"
	fieldSizeBytes   = "size_bytes"
	fieldStoragePath = "storage_path"
	fieldKind        = "kind"
	fieldStatus      = "status"
	fieldProgress    = "progress"
	fieldContent     = "parsed_content"
	fieldError       = "error"
	fieldCreatedAt   = "created_at"
)

// RedisRepository keeps each job as a hash under file:<id> so progress
// writes and status reads touch single fields instead of the whole record.
// A sorted set scored by creation time serves newest-first listing.
type RedisRepository struct {
	rdb *redis.Client
	log logger.Logger
}

func NewRedisRepository(rdb *redis.Client, log logger.Logger) *RedisRepository {
	return &RedisRepository{rdb: rdb, log: log}
}

func jobKey(id string) string { return keyPrefix + id }

func (r *RedisRepository) Create(ctx context.Context, job *models.IngestionJob) error {
	content, err := json.Marshal(job.Content)
	if err != nil {
		return &models.StorageError{Op: "encode content", Err: err}
	}

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, jobKey(job.ID), map[string]any{
		fieldFilename:    job.Filename,
		fieldMimeType:    job.MimeType,
		fieldSizeBytes:   strconv.FormatInt(job.SizeBytes, 10),
		fieldStoragePath: job.StoragePath,
		fieldKind:        string(job.Kind),
		fieldStatus:      string(job.Status),
		fieldProgress:    strconv.Itoa(job.Progress),
		fieldContent:     string(content),
		fieldError:       job.Error,
		fieldCreatedAt:   job.CreatedAt.Format(time.RFC3339Nano),
	})
	pipe.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(job.CreatedAt.UnixNano()),
		Member: job.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return &models.StorageError{Op: "create", Err: err}
	}
	return nil
}

func (r *RedisRepository) FindByID(ctx context.Context, id string) (*models.IngestionJob, error) {
	fields, err := r.rdb.HGetAll(ctx, jobKey(id)).Result()
	if err != nil {
		return nil, &models.StorageError{Op: "read", Err: err}
	}
	if len(fields) == 0 {
		return nil, models.ErrNotFound
	}
	return decodeJob(id, fields)
}

func (r *RedisRepository) GetStatus(ctx context.Context, id string) (models.FileStatus, int, error) {
	vals, err := r.rdb.HMGet(ctx, jobKey(id), fieldStatus, fieldProgress).Result()
	if err != nil {
		return "", 0, &models.StorageError{Op: "read status", Err: err}
	}
	if vals[0] == nil {
		return "", 0, models.ErrNotFound
	}
	status := models.FileStatus(asString(vals[0]))
	progress, _ := strconv.Atoi(asString(vals[1]))
	return status, progress, nil
}

func (r *RedisRepository) List(ctx context.Context) ([]models.JobSummary, error) {
	ids, err := r.rdb.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, &models.StorageError{Op: "list", Err: err}
	}

	summaries := make([]models.JobSummary, 0, len(ids))
	for _, id := range ids {
		vals, err := r.rdb.HMGet(ctx, jobKey(id),
			fieldFilename, fieldMimeType, fieldSizeBytes, fieldKind,
			fieldStatus, fieldProgress, fieldError, fieldCreatedAt,
		).Result()
		if err != nil {
			return nil, &models.StorageError{Op: "list", Err: err}
		}
		if vals[0] == nil {
			// Index entry outlived its hash; skip and repair later.
			r.log.Warn("dangling index entry", logger.String("fileId", id))
			continue
		}
		size, _ := strconv.ParseInt(asString(vals[2]), 10, 64)
		progress, _ := strconv.Atoi(asString(vals[5]))
		createdAt, _ := time.Parse(time.RFC3339Nano, asString(vals[7]))
		summaries = append(summaries, models.JobSummary{
			ID:        id,
			Filename:  asString(vals[0]),
			MimeType:  asString(vals[1]),
			SizeBytes: size,
			Kind:      models.FileKind(asString(vals[3])),
			Status:    models.FileStatus(asString(vals[4])),
			Progress:  progress,
			Error:     asString(vals[6]),
			CreatedAt: createdAt,
		})
	}
	return summaries, nil
}

func (r *RedisRepository) UpdateProgress(ctx context.Context, id string, status models.FileStatus, progress int) error {
	err := r.rdb.HSet(ctx, jobKey(id),
		fieldStatus, string(status),
		fieldProgress, strconv.Itoa(progress),
	).Err()
	if err != nil {
		return &models.StorageError{Op: "update progress", Err: err}
	}
	return nil
}

func (r *RedisRepository) Finalize(ctx context.Context, job *models.IngestionJob) error {
	content, err := json.Marshal(job.Content)
	if err != nil {
		return &models.StorageError{Op: "encode content", Err: err}
	}
	err = r.rdb.HSet(ctx, jobKey(job.ID),
		fieldStatus, string(job.Status),
		fieldProgress, strconv.Itoa(job.Progress),
		fieldError, job.Error,
		fieldContent, string(content),
	).Err()
	if err != nil {
		return &models.StorageError{Op: "finalize", Err: err}
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) (*models.IngestionJob, error) {
	job, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, jobKey(id))
	pipe.ZRem(ctx, indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, &models.StorageError{Op: "delete", Err: err}
	}
	return job, nil
}

func decodeJob(id string, fields map[string]string) (*models.IngestionJob, error) {
	size, _ := strconv.ParseInt(fields[fieldSizeBytes], 10, 64)
	progress, _ := strconv.Atoi(fields[fieldProgress])
	createdAt, _ := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	kind := models.FileKind(fields[fieldKind])

	content, err := models.DecodeParsedContent(kind, []byte(fields[fieldContent]))
	if err != nil {
		return nil, &models.StorageError{Op: "decode content", Err: fmt.Errorf("file %s: %w", id, err)}
	}

	return &models.IngestionJob{
		ID:          id,
		Filename:    fields[fieldFilename],
		MimeType:    fields[fieldMimeType],
		SizeBytes:   size,
		StoragePath: fields[fieldStoragePath],
		Kind:        kind,
		Status:      models.FileStatus(fields[fieldStatus]),
		Progress:    progress,
		Content:     content,
		Error:       fields[fieldError],
		CreatedAt:   createdAt,
	}, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
