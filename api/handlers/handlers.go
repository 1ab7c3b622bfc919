package handlers

import (
	"file-ingestion-service/internal/service/ingestion"
	"file-ingestion-service/pkg/logger"
)

type Handlers struct {
	File *FileHandler
}

func NewHandlers(
	ingestionService ingestion.Service,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		File: NewFileHandler(ingestionService, logger),
	}
}
