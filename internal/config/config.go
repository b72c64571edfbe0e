package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// platformCeiling es el limite de la plataforma para una respuesta HTTP.
const platformCeiling = 300 * time.Second

var ErrInvalidChatTimeout = errors.New("chat timeout must be positive and below the platform ceiling")

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort           string        `env:"HTTP_PORT" envDefault:"8080"`
	ChatBackendURL     string        `env:"CHAT_BACKEND_URL" envDefault:"http://127.0.0.1:5000"`
	ChatTimeout        time.Duration `env:"CHAT_TIMEOUT" envDefault:"290s"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	AWSRegion          string        `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket           string        `env:"S3_BUCKET" envDefault:"connect-america-files"`
	DocumentsPrefix    string        `env:"DOCUMENTS_PREFIX"`
	DocumentsCacheTTL  time.Duration `env:"DOCUMENTS_CACHE_TTL" envDefault:"5m"`
	DownloadMaxBytes   int64         `env:"DOWNLOAD_MAX_BYTES" envDefault:"0"`
	FAQSampleSize      int           `env:"FAQ_SAMPLE_SIZE" envDefault:"3"`
	RedisAddr          string        `env:"REDIS_ADDR"`
	RedisPassword      string        `env:"REDIS_PASSWORD"`
	RedisDB            int           `env:"REDIS_DB" envDefault:"0"`
	ChatRateLimit      int           `env:"CHAT_RATE_LIMIT" envDefault:"0"`
	ChatRateWindow     time.Duration `env:"CHAT_RATE_WINDOW" envDefault:"1m"`
	JWTSecret          string        `env:"JWT_SECRET"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa invariantes que env no puede expresar con tags.
func (c *Config) Validate() error {
	if c.ChatTimeout <= 0 || c.ChatTimeout >= platformCeiling {
		return fmt.Errorf("%w: %s", ErrInvalidChatTimeout, c.ChatTimeout)
	}
	c.ChatBackendURL = strings.TrimRight(strings.TrimSpace(c.ChatBackendURL), "/")
	if c.ChatBackendURL == "" {
		return errors.New("chat backend url is required")
	}
	if strings.TrimSpace(c.S3Bucket) == "" {
		return errors.New("s3 bucket is required")
	}
	if c.FAQSampleSize <= 0 {
		c.FAQSampleSize = 3
	}
	if c.DownloadMaxBytes < 0 {
		c.DownloadMaxBytes = 0
	}
	return nil
}

// BucketHostMarker es la subcadena que debe contener el host de una URL de documento.
func (c *Config) BucketHostMarker() string {
	return c.S3Bucket + ".s3"
}
