package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/logger"
)

// MetadataCache stores fetched page metadata in Redis with a TTL.
// A nil *MetadataCache is a valid no-op, so callers never have to
// branch on whether caching is configured.
type MetadataCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewMetadataCache(client *redis.Client, ttl time.Duration, log logger.Logger) *MetadataCache {
	return &MetadataCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached metadata for url, or false on a miss.
// Cache failures are logged and reported as misses.
func (c *MetadataCache) Get(ctx context.Context, url string) (*domain.PageMetadata, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, MetadataKey(url)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("metadata cache read failed",
				logger.String("url", url),
				logger.Error(err))
		}
		return nil, false
	}

	var md domain.PageMetadata
	if err := json.Unmarshal(data, &md); err != nil {
		c.log.Warn("metadata cache entry corrupt, dropping",
			logger.String("url", url),
			logger.Error(err))
		c.client.Del(ctx, MetadataKey(url))
		return nil, false
	}
	return &md, true
}

// Set stores the metadata for url. Best effort: failures are logged,
// never surfaced.
func (c *MetadataCache) Set(ctx context.Context, url string, md domain.PageMetadata) {
	if c == nil {
		return
	}

	data, err := json.Marshal(md)
	if err != nil {
		c.log.Warn("failed to encode metadata for cache", logger.Error(err))
		return
	}
	if err := c.client.Set(ctx, MetadataKey(url), data, c.ttl).Err(); err != nil {
		c.log.Warn("metadata cache write failed",
			logger.String("url", url),
			logger.Error(err))
	}
}

// Close releases the underlying Redis connection.
func (c *MetadataCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
