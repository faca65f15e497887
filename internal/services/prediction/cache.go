package prediction

import (
	"context"
	"fmt"
	"time"

	"hypewatch/internal/adapters/redis"
	"hypewatch/internal/domain/market"
	"hypewatch/internal/domain/social"
	"hypewatch/pkg/logger"
)

// CacheConfig contains configuration for the source cache
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// DefaultCacheConfig returns the default configuration. The short TTL
// keeps repeat queries for a hot ticker from hammering upstream APIs
// without serving stale chatter for long.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: true,
		TTL:     time.Minute,
	}
}

// SourceCache is a short-lived redis cache for fetched posts and quotes.
// Every failure is a miss; the pipeline never depends on the cache.
type SourceCache struct {
	cfg   CacheConfig
	redis *redis.Client
	log   *logger.Logger
}

// NewSourceCache creates a source cache
func NewSourceCache(cfg CacheConfig, client *redis.Client) *SourceCache {
	return &SourceCache{
		cfg:   cfg,
		redis: client,
		log:   logger.Get().With("component", "source_cache"),
	}
}

func (c *SourceCache) enabled() bool {
	return c != nil && c.cfg.Enabled && c.redis != nil
}

// GetPosts returns cached posts for a source/ticker pair
func (c *SourceCache) GetPosts(ctx context.Context, source, ticker string) ([]social.Post, bool) {
	if !c.enabled() {
		return nil, false
	}

	var posts []social.Post
	err := c.redis.Get(ctx, postsKey(source, ticker), &posts)
	if err != nil {
		if err != redis.Nil {
			c.log.Debugf("posts cache get failed: %v", err)
		}
		return nil, false
	}
	return posts, true
}

// SetPosts caches posts for a source/ticker pair
func (c *SourceCache) SetPosts(ctx context.Context, source, ticker string, posts []social.Post) {
	if !c.enabled() {
		return
	}
	if err := c.redis.Set(ctx, postsKey(source, ticker), posts, c.cfg.TTL); err != nil {
		c.log.Debugf("posts cache set failed: %v", err)
	}
}

// GetQuote returns a cached quote for a ticker
func (c *SourceCache) GetQuote(ctx context.Context, ticker string) (market.Quote, bool) {
	if !c.enabled() {
		return market.Quote{}, false
	}

	var quote market.Quote
	err := c.redis.Get(ctx, quoteKey(ticker), &quote)
	if err != nil {
		if err != redis.Nil {
			c.log.Debugf("quote cache get failed: %v", err)
		}
		return market.Quote{}, false
	}
	return quote, true
}

// SetQuote caches a quote for a ticker
func (c *SourceCache) SetQuote(ctx context.Context, ticker string, quote market.Quote) {
	if !c.enabled() {
		return
	}
	if err := c.redis.Set(ctx, quoteKey(ticker), quote, c.cfg.TTL); err != nil {
		c.log.Debugf("quote cache set failed: %v", err)
	}
}

func postsKey(source, ticker string) string {
	return fmt.Sprintf("source:%s:%s", source, ticker)
}

func quoteKey(ticker string) string {
	return fmt.Sprintf("quote:%s", ticker)
}
