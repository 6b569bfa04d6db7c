package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/shooting-roster/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultFacetTTL = 10 * time.Minute

// FacetCache is a cache-aside layer for the distinct tag lists shown as
// listing facets. A nil *FacetCache, or one without a client, never caches.
type FacetCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewFacetCache(rdb *redis.Client, ttl time.Duration) *FacetCache {
	if ttl <= 0 {
		ttl = DefaultFacetTTL
	}
	return &FacetCache{
		rdb:    rdb,
		ttl:    ttl,
		logger: log.With().Str("service", "facetCache").Logger(),
	}
}

// Enabled reports whether a redis client backs the cache.
func (c *FacetCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Tags returns the cached tag texts of kind, calling load on a miss.
// Redis failures fall through to load.
func (c *FacetCache) Tags(ctx context.Context, kind models.OwnerKind, load func(context.Context) ([]string, error)) ([]string, error) {
	if !c.Enabled() {
		return load(ctx)
	}

	key := tagsKey(kind)
	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var texts []string
		if jerr := json.Unmarshal(data, &texts); jerr == nil {
			return texts, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding unreadable cache entry")
	case !errors.Is(err, redis.Nil):
		c.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	texts, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(texts); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return texts, nil
}

// Invalidate drops the cached tag list of kind.
func (c *FacetCache) Invalidate(ctx context.Context, kind models.OwnerKind) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Del(ctx, tagsKey(kind)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("kind", string(kind)).Msg("cache invalidation failed")
	}
}

func tagsKey(kind models.OwnerKind) string {
	return "roster:facets:tags:" + string(kind)
}
