package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"file-ingestion-service/internal/models"
	"file-ingestion-service/internal/service/ingestion"
	"file-ingestion-service/pkg/logger"
)

type FileHandler struct {
	service ingestion.Service
	logger  logger.Logger
}

// UploadResponse is the immediate answer to a submission; parsing is
// still running when the client receives it.
type UploadResponse struct {
	FileID string `json:"fileId"`
	Status string `json:"status"`
}

// ErrorResponse is the structured failure body.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

func NewFileHandler(service ingestion.Service, logger logger.Logger) *FileHandler {
	return &FileHandler{
		service: service,
		logger:  logger,
	}
}

// UploadFile accepts a multipart upload under field "file".
func (h *FileHandler) UploadFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: no file uploaded", models.ErrValidation))
		return
	}
	defer file.Close()

	job, err := h.service.Submit(
		c.Request.Context(),
		file,
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
	)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, UploadResponse{
		FileID: job.ID,
		Status: string(job.Status),
	})
}

// UploadBatch accepts several uploads under field "files".
func (h *FileHandler) UploadBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.respondError(c, fmt.Errorf("%w: invalid form data", models.ErrValidation))
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		h.respondError(c, fmt.Errorf("%w: no files provided", models.ErrValidation))
		return
	}

	jobs, err := h.service.SubmitBatch(c.Request.Context(), files)
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]UploadResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = UploadResponse{FileID: job.ID, Status: string(job.Status)}
	}
	c.JSON(http.StatusAccepted, gin.H{"files": responses})
}

// GetProgress reports status and progress for one job.
func (h *FileHandler) GetProgress(c *gin.Context) {
	view, err := h.service.GetStatus(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileId":   view.FileID,
		"status":   view.Status,
		"progress": view.Progress,
	})
}

// GetContent returns parsed content once ready, the progress view before
// that.
func (h *FileHandler) GetContent(c *gin.Context) {
	view, err := h.service.GetContent(c.Request.Context(), c.Param("fileId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if !view.Ready {
		c.JSON(http.StatusOK, gin.H{
			"message":  view.Message,
			"status":   view.Status,
			"progress": view.Progress,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileId":  view.FileID,
		"content": view.Content,
	})
}

// ListFiles returns newest-first job summaries without parsed content.
func (h *FileHandler) ListFiles(c *gin.Context) {
	summaries, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// DeleteFile removes a job and its raw file.
func (h *FileHandler) DeleteFile(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("fileId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// respondError maps the error taxonomy onto HTTP statuses. Clients always
// receive a structured body, never a raw internal failure.
func (h *FileHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	var storageErr *models.StorageError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
		message = "File not found"
	case errors.Is(err, models.ErrUnsupportedFormat):
		status = http.StatusUnsupportedMediaType
		message = "Unsupported media type"
	case errors.Is(err, models.ErrPayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
		message = "File too large"
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
		message = "Invalid request"
	case errors.As(err, &storageErr):
		message = "Storage failure"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error(message,
			logger.String("path", c.Request.URL.Path),
			logger.Error(err),
		)
	}

	c.JSON(status, ErrorResponse{
		Error:   err.Error(),
		Message: message,
	})
}
