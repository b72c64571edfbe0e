package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"connect-support/internal/service"
)

// CatalogHandler sirve las preguntas sugeridas y el listado de documentos.
type CatalogHandler struct {
	logger    *zap.Logger
	faq       *service.FAQService
	documents *service.DocumentService
}

// NewCatalogHandler crea una instancia de CatalogHandler con dependencias necesarias.
func NewCatalogHandler(logger *zap.Logger, faq *service.FAQService, documents *service.DocumentService) *CatalogHandler {
	return &CatalogHandler{
		logger:    logger,
		faq:       faq,
		documents: documents,
	}
}

// ListQuestions maneja GET /questions.
func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	questions, err := h.faq.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list questions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch questions"})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// ListDocuments maneja GET /documents?q=.
func (h *CatalogHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.logger.Error("list documents failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}
