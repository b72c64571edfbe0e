package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"connect-support/internal/config"
)

var ErrDatabaseNotConfigured = errors.New("database url not configured")

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if cfg == nil || cfg.DatabaseURL == "" {
		return nil, ErrDatabaseNotConfigured
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Solo lecturas cortas de preguntas frecuentes; pocas conexiones bastan.
	poolCfg.MaxConns = 5
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS faq_questions (
	id            BIGSERIAL PRIMARY KEY,
	question_text TEXT NOT NULL UNIQUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema crea la tabla de preguntas frecuentes si no existe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
