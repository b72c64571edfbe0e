package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"connect-support/internal/service"
)

// RouterOptions agrupa los middlewares opcionales.
type RouterOptions struct {
	AllowedOrigins []string
	JWT            *service.JWTService
	ChatLimiter    service.RateLimiter
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	opts RouterOptions,
	chatH *ChatHandler,
	downloadH *DownloadHandler,
	catalogH *CatalogHandler,
	healthH *HealthHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), cors.New(corsConfig(opts.AllowedOrigins)))

	r.GET("/health", healthH.Health)

	r.GET("/questions", catalogH.ListQuestions)
	r.GET("/documents", catalogH.ListDocuments)

	protected := r.Group("", JWTAuthMiddleware(opts.JWT))
	protected.POST("/chat", rateLimitMiddleware(opts.ChatLimiter), chatH.PostChat)
	protected.POST("/download", downloadH.Download)
	protected.POST("/download/presign", downloadH.Presign)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", "Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
