package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"connect-support/internal/domain"
	"connect-support/internal/service"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// zapLoggerMiddleware registra cada request con su request id.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		latency := time.Since(start)
		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// rateLimitMiddleware corta con 429 cuando el cliente excede su ventana.
// La respuesta mantiene la forma de ChatMessage para que la UI la muestre tal cual.
func rateLimitMiddleware(limiter service.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.Allow(c.Request.Context(), c.ClientIP()) {
			c.Next()
			return
		}
		c.JSON(http.StatusTooManyRequests, domain.AssistantMessage("Too many requests. Please try again later."))
		c.Abort()
	}
}
