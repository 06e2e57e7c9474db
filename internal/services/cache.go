package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
	"github.com/redis/go-redis/v9"
)

const cachePrefix = "catalog"

// Cache stores public catalog responses in Redis.
// Every mutation bumps a generation counter, which retires all earlier keys at once.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    *logger.Logger
}

// NewCache returns nil when client is nil so callers can pass the result straight through.
func NewCache(client redis.UniversalClient, ttl time.Duration, log *logger.Logger) *Cache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl, log: log.With("component", "cache")}
}

// QueryCacheKey hashes params in key order so equivalent queries share an entry.
func QueryCacheKey(prefix string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return prefix + ":" + hex.EncodeToString(hash[:])
}

func (c *Cache) generation(ctx context.Context) string {
	gen, err := c.client.Get(ctx, cachePrefix+":generation").Result()
	if errors.Is(err, redis.Nil) {
		return "0"
	}
	if err != nil {
		c.log.Warn("cache generation read failed", "error", err)
		return ""
	}
	return gen
}

// Get decodes a cached value into dest and reports whether it was found.
func (c *Cache) Get(ctx context.Context, kind string, params map[string]string, dest any) bool {
	if c == nil {
		return false
	}
	gen := c.generation(ctx)
	if gen == "" {
		return false
	}
	data, err := c.client.Get(ctx, QueryCacheKey(cachePrefix+":"+gen+":"+kind, params)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", "kind", kind, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("cache entry unreadable", "kind", kind, "error", err)
		return false
	}
	return true
}

// Set stores value under the current generation.
func (c *Cache) Set(ctx context.Context, kind string, params map[string]string, value any) {
	if c == nil {
		return
	}
	gen := c.generation(ctx)
	if gen == "" {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", "kind", kind, "error", err)
		return
	}
	if err := c.client.Set(ctx, QueryCacheKey(cachePrefix+":"+gen+":"+kind, params), data, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "kind", kind, "error", err)
	}
}

// Invalidate retires every cached page.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, cachePrefix+":generation").Err(); err != nil {
		c.log.Warn("cache invalidation failed", "error", err)
	}
}

// Ping checks the Redis connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
