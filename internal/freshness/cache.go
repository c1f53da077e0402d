// Package freshness decides whether a cached copy of a data domain is
// still current by comparing it with the marker record.
package freshness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripframe/tripframe-server/internal/domain"
	"github.com/tripframe/tripframe-server/internal/store"
)

// ErrCacheMiss is returned when no entry exists for a cache domain.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore holds one entry per cache domain and scope key, so listings
// for different years are cached side by side.
type CacheStore interface {
	Get(ctx context.Context, d domain.CacheDomain, scopeKey string) (*domain.CacheEntry, error)
	Put(ctx context.Context, d domain.CacheDomain, scopeKey string, entry *domain.CacheEntry) error
	Delete(ctx context.Context, d domain.CacheDomain, scopeKey string) error
}

// entryKey is the storage key of a cache domain and scope.
func entryKey(d domain.CacheDomain, scopeKey string) string {
	return string(d) + ":" + scopeKey
}

// BadgerCache stores entries in the embedded badger store.
type BadgerCache struct {
	entries *store.Entity[domain.CacheEntry]
}

// NewBadgerCache creates a cache in s. A positive ttl expires entries.
func NewBadgerCache(s *store.Store, ttl time.Duration) *BadgerCache {
	return &BadgerCache{
		entries: store.NewEntity[domain.CacheEntry](s, "cache:").WithTTL(ttl),
	}
}

// Get implements CacheStore.
func (c *BadgerCache) Get(ctx context.Context, d domain.CacheDomain, scopeKey string) (*domain.CacheEntry, error) {
	entry, err := c.entries.Get(ctx, entryKey(d, scopeKey))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCacheMiss
	}
	return entry, err
}

// Put implements CacheStore.
func (c *BadgerCache) Put(ctx context.Context, d domain.CacheDomain, scopeKey string, entry *domain.CacheEntry) error {
	return c.entries.Put(ctx, entryKey(d, scopeKey), entry)
}

// Delete implements CacheStore.
func (c *BadgerCache) Delete(ctx context.Context, d domain.CacheDomain, scopeKey string) error {
	return c.entries.Delete(ctx, entryKey(d, scopeKey))
}

// RedisCache stores entries in Redis so several server instances share them.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache wraps client. Keys are prefix + cache domain + ":" + scope.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

// Ping checks if the Redis connection is alive.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Get implements CacheStore.
func (c *RedisCache) Get(ctx context.Context, d domain.CacheDomain, scopeKey string) (*domain.CacheEntry, error) {
	val, err := c.client.Get(ctx, c.key(d, scopeKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(val, &entry); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	return &entry, nil
}

// Put implements CacheStore.
func (c *RedisCache) Put(ctx context.Context, d domain.CacheDomain, scopeKey string, entry *domain.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, c.key(d, scopeKey), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete implements CacheStore.
func (c *RedisCache) Delete(ctx context.Context, d domain.CacheDomain, scopeKey string) error {
	if err := c.client.Del(ctx, c.key(d, scopeKey)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *RedisCache) key(d domain.CacheDomain, scopeKey string) string {
	return c.prefix + entryKey(d, scopeKey)
}
