package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"connect-support/internal/service"
)

// DownloadHandler expone el gateway de descarga de documentos.
type DownloadHandler struct {
	logger    *zap.Logger
	downloads *service.DownloadService
}

// NewDownloadHandler crea una instancia de DownloadHandler con dependencias necesarias.
func NewDownloadHandler(logger *zap.Logger, downloads *service.DownloadService) *DownloadHandler {
	return &DownloadHandler{
		logger:    logger,
		downloads: downloads,
	}
}

type downloadRequest struct {
	URL string `json:"url"`
}

// Download maneja POST /download. Los errores van en texto plano.
func (h *DownloadHandler) Download(c *gin.Context) {
	uid := requestUserID(c)
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid download request body", zap.Error(err), zap.String("uid", uid))
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	file, err := h.downloads.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDocumentURL) {
			h.logger.Warn("download rejected", zap.String("url", req.URL), zap.String("uid", uid))
			c.String(http.StatusBadRequest, "Invalid URL")
			return
		}
		h.logger.Error("download failed", zap.Error(err), zap.String("url", req.URL), zap.String("uid", uid))
		c.String(http.StatusInternalServerError, "Failed to retrieve file from S3")
		return
	}

	h.logger.Info("download served",
		zap.String("uid", uid),
		zap.String("name", file.Name),
		zap.Int64("bytes", file.ContentLength),
	)
	c.Header("Content-Disposition", "attachment; filename="+file.Name)
	c.Header("Content-Length", strconv.FormatInt(file.ContentLength, 10))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Presign maneja POST /download/presign.
func (h *DownloadHandler) Presign(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid presign request body", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	signed, err := h.downloads.Presign(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDocumentURL) {
			c.String(http.StatusBadRequest, "Invalid URL")
			return
		}
		h.logger.Error("presign failed", zap.Error(err), zap.String("url", req.URL))
		c.String(http.StatusInternalServerError, "Failed to retrieve file from S3")
		return
	}

	c.JSON(http.StatusOK, gin.H{"presignedUrl": signed})
}
