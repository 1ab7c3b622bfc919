package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"file-ingestion-service/api/handlers"
	"file-ingestion-service/api/middleware"
)

// SetupRoutes wires the HTTP surface.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	files := v1.Group("/files")
	{
		files.POST("", h.File.UploadFile)
		files.POST("/batch", h.File.UploadBatch)
		files.GET("", h.File.ListFiles)
		files.GET("/:fileId", h.File.GetContent)
		files.GET("/:fileId/progress", h.File.GetProgress)
		files.DELETE("/:fileId", h.File.DeleteFile)
	}
}
