package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck verifica una dependencia externa.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	logger *zap.Logger
	checks map[string]HealthCheck
}

func NewHealthHandler(logger *zap.Logger, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{logger: logger, checks: checks}
}

// Health maneja GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			results[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":    overall,
		"checks":    results,
		"timestamp": time.Now().Unix(),
	})
}
