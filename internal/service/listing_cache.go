package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"connect-support/internal/domain"
)

// ListingCache guarda listados de documentos por clave con expiracion.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]domain.Document, bool, error)
	Set(ctx context.Context, key string, docs []domain.Document, ttl time.Duration) error
}

type memoryEntry struct {
	docs      []domain.Document
	expiresAt time.Time
}

type memoryListingCache struct {
	mu    sync.Mutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryListingCache() ListingCache {
	return &memoryListingCache{
		items: make(map[string]memoryEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (c *memoryListingCache) Get(_ context.Context, key string) ([]domain.Document, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.items, key)
		return nil, false, nil
	}
	out := make([]domain.Document, len(entry.docs))
	copy(out, entry.docs)
	return out, true, nil
}

func (c *memoryListingCache) Set(_ context.Context, key string, docs []domain.Document, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" || ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := make([]domain.Document, len(docs))
	copy(stored, docs)
	c.items[key] = memoryEntry{docs: stored, expiresAt: c.now().Add(ttl)}
	return nil
}

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisListingCache struct {
	client redisKV
	prefix string
}

func NewRedisListingCache(client *redis.Client) ListingCache {
	if client == nil {
		return nil
	}
	return &redisListingCache{
		client: client,
		prefix: "docs:listing:",
	}
}

func (c *redisListingCache) Get(ctx context.Context, key string) ([]domain.Document, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var docs []domain.Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, false, err
	}
	return docs, true, nil
}

func (c *redisListingCache) Set(ctx context.Context, key string, docs []domain.Document, ttl time.Duration) error {
	if strings.TrimSpace(key) == "" || ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return c.client.Set(ctx, c.prefix+key, payload, ttl).Err()
}
