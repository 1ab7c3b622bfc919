package ingestion

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	cfg "file-ingestion-service/config"
	"file-ingestion-service/internal/parser"
	"file-ingestion-service/internal/repository"
	"file-ingestion-service/pkg/logger"
	"file-ingestion-service/pkg/queue"
	"file-ingestion-service/pkg/storage"
)

// GetService assembles the orchestrator from the environment config:
// redis-backed job store and queue, the configured raw-file backend, and
// the parser factory.
func GetService(log logger.Logger) (Service, error) {
	redisCfg := cfg.GetRedisConfig()
	rdb := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	repo := repository.NewRedisRepository(rdb, log)

	q := queue.NewAsynqQueue(asynq.RedisClientOpt{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	storageCfg := cfg.GetStorageConfig()
	store, err := storage.NewStorage(storage.BackendType(storageCfg.Backend), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	factory := parser.NewFactory(log)

	uploadCfg := cfg.GetUploadConfig()
	return NewService(repo, q, store, factory, log, &Config{
		MaxFileSize:      uploadCfg.MaxFileSize,
		AllowedMimeTypes: uploadCfg.AllowedMimeTypes,
		SaveInterval:     uploadCfg.SaveInterval,
	}), nil
}
