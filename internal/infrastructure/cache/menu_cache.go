package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// MenuCache caches the rendered customer menu per theater. The cached
// value is the serialized menu response; catalog changes invalidate it.
type MenuCache interface {
	// Get returns the cached menu payload, or (nil, nil) on a miss.
	Get(ctx context.Context, theaterID uuid.UUID) ([]byte, error)

	// Set stores the menu payload with the given TTL.
	Set(ctx context.Context, theaterID uuid.UUID, payload []byte, ttl time.Duration) error

	// Invalidate drops the cached menu for the theater.
	Invalidate(ctx context.Context, theaterID uuid.UUID) error
}

// RedisMenuCache implements MenuCache on Redis.
type RedisMenuCache struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisMenuCache(client *redis.Client) *RedisMenuCache {
	return &RedisMenuCache{
		client:    client,
		keyPrefix: "menu:",
	}
}

func (c *RedisMenuCache) key(theaterID uuid.UUID) string {
	return c.keyPrefix + theaterID.String()
}

func (c *RedisMenuCache) Get(ctx context.Context, theaterID uuid.UUID) ([]byte, error) {
	payload, err := c.client.Get(ctx, c.key(theaterID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached menu: %w", err)
	}
	return payload, nil
}

func (c *RedisMenuCache) Set(ctx context.Context, theaterID uuid.UUID, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(theaterID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache menu: %w", err)
	}
	return nil
}

func (c *RedisMenuCache) Invalidate(ctx context.Context, theaterID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(theaterID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached menu: %w", err)
	}
	return nil
}

var _ MenuCache = (*RedisMenuCache)(nil)

type menuEntry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemoryMenuCache is a single-process MenuCache used in tests and
// when Redis is not configured.
type InMemoryMenuCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]menuEntry
}

func NewInMemoryMenuCache() *InMemoryMenuCache {
	return &InMemoryMenuCache{entries: make(map[uuid.UUID]menuEntry)}
}

func (c *InMemoryMenuCache) Get(_ context.Context, theaterID uuid.UUID) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[theaterID]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.payload, nil
}

func (c *InMemoryMenuCache) Set(_ context.Context, theaterID uuid.UUID, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[theaterID] = menuEntry{payload: payload, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (c *InMemoryMenuCache) Invalidate(_ context.Context, theaterID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, theaterID)
	return nil
}

var _ MenuCache = (*InMemoryMenuCache)(nil)
