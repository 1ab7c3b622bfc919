package config

import (
	"sync"
)

var (
	workerOnce   sync.Once
	workerConfig *WorkerConfig
)

type WorkerConfig struct {
	Concurrency int
	Queues      map[string]int
}

func GetWorkerConfig() *WorkerConfig {
	workerOnce.Do(func() {
		loadEnv()

		workerConfig = &WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 10),
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		}
	})
	return workerConfig
}
