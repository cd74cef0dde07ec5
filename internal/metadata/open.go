package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/juju/clock"
	"github.com/redis/go-redis/v9"
	"github.com/syntrixbase/crm/internal/metadata/catalog"
)

// OpenCatalog builds the generated catalog, wrapped in the Redis cache when
// enabled. The returned close function releases the Redis client.
func OpenCatalog(ctx context.Context, cfg Config, logger *slog.Logger) (catalog.Catalog, func() error, error) {
	gen := catalog.NewGenerated(clock.WallClock, cfg.ContentAgeDays)
	if !cfg.Redis.Enabled {
		return gen, func() error { return nil }, nil
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rc := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return catalog.NewCached(gen, rc, cfg.Redis.TTL, logger), rc.Close, nil
}
