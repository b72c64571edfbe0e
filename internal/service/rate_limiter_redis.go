package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter decide si un cliente puede hacer otra peticion en la ventana actual.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

const rateLimitRedisTimeout = 500 * time.Millisecond

const redisAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisRateLimiter limita por ventana fija. Si redis falla, deja pasar.
func NewRedisRateLimiter(client *redis.Client, prefix string, window time.Duration, max int) RateLimiter {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: prefix,
	}
}

// Allow cuenta la peticion en la ventana del cliente. Sin clave identificable
// o con redis caido no se limita.
func (l *redisRateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	clientKey := strings.ToLower(strings.TrimSpace(key))
	if clientKey == "" {
		return true
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, rateLimitRedisTimeout)
	defer cancel()

	ttl := int(l.window / time.Second)
	if ttl <= 0 {
		ttl = 60
	}
	count, err := l.client.Eval(ctx, redisAllowScript, []string{l.prefix + clientKey}, ttl).Int()
	if err != nil {
		return true
	}
	return count <= l.max
}
