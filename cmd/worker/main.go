package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cfg "file-ingestion-service/config"
	"file-ingestion-service/internal/service/ingestion"
	"file-ingestion-service/pkg/logger"
	"file-ingestion-service/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	svc, err := ingestion.GetService(log)
	if err != nil {
		log.Error("Failed to create ingestion service", logger.Error(err))
		os.Exit(1)
	}

	redisCfg := cfg.GetRedisConfig()
	workerCfg := cfg.GetWorkerConfig()
	fileWorker, err := worker.NewFileWorker(&worker.Config{
		RedisAddr:   redisCfg.Addr,
		RedisDB:     redisCfg.DB,
		Concurrency: workerCfg.Concurrency,
		Queues:      workerCfg.Queues,
	}, svc, log)
	if err != nil {
		log.Error("Failed to create file worker", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := fileWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	fileWorker.Stop()
	log.Info("Worker stopped")
}
