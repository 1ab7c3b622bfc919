package config

import (
	"sync"
	"time"
)

var (
	uploadOnce   sync.Once
	uploadConfig *UploadConfig
)

// UploadConfig is the intake filter: mime allowlist, size ceiling, and how
// often a running parse may persist progress.
type UploadConfig struct {
	MaxFileSize      int64
	AllowedMimeTypes []string
	SaveInterval     time.Duration
}

func GetUploadConfig() *UploadConfig {
	uploadOnce.Do(func() {
		loadEnv()

		uploadConfig = &UploadConfig{
			MaxFileSize: getEnvInt64("UPLOAD_MAX_FILE_SIZE", 50*1024*1024), // 50 MiB
			AllowedMimeTypes: []string{
				"text/csv",
				"application/vnd.ms-excel",
				"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
				"application/pdf",
			},
			SaveInterval: getEnvDuration("PROGRESS_SAVE_INTERVAL", 200*time.Millisecond),
		}
	})
	return uploadConfig
}
