package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	metadatav1 "github.com/syntrixbase/crm/api/metadata/v1"
	"github.com/syntrixbase/crm/internal/metrics"
)

// KeyPrefix namespaces cached content.
const KeyPrefix = "crm:content:"

// Cache is the subset of redis.Cmdable the read-through cache uses.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Cached reads through a Redis cache in front of another catalog. Cache
// failures are logged and fall back to the inner catalog.
type Cached struct {
	inner  Catalog
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(inner Catalog, cache Cache, ttl time.Duration, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "content-cache"),
	}
}

func Key(id uint32) string {
	return fmt.Sprintf("%s%d", KeyPrefix, id)
}

func (c *Cached) Get(ctx context.Context, id uint32) (*metadatav1.Content, error) {
	if id == 0 {
		return nil, ErrInvalidID
	}
	key := Key(id)

	data, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var content metadatav1.Content
		if err := json.Unmarshal(data, &content); err == nil {
			metrics.ContentCache.WithLabelValues("hit").Inc()
			return &content, nil
		}
		c.logger.Warn("Dropping undecodable cache entry", "key", key)
	case errors.Is(err, redis.Nil):
		metrics.ContentCache.WithLabelValues("miss").Inc()
	default:
		metrics.ContentCache.WithLabelValues("error").Inc()
		c.logger.Warn("Content cache read failed", "key", key, "error", err)
	}

	content, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(content); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Content cache write failed", "key", key, "error", err)
		}
	}
	return content, nil
}
