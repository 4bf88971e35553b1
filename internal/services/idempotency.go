package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// IdempotencyKeyPrefix is the Redis key prefix for claimed request keys
	IdempotencyKeyPrefix = "idem:"
	// IdempotencyTTL is how long a claimed key blocks replays
	IdempotencyTTL = 24 * time.Hour
)

// KeyClaimer remembers request keys so retried requests are applied once.
type KeyClaimer interface {
	// Claim returns true the first time key is seen within the TTL.
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

// RedisClaimer shares claimed keys across server instances.
type RedisClaimer struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClaimer(client *redis.Client) *RedisClaimer {
	return &RedisClaimer{client: client, ttl: IdempotencyTTL}
}

func (c *RedisClaimer) Claim(ctx context.Context, key string) (bool, error) {
	return c.client.SetNX(ctx, IdempotencyKeyPrefix+key, "1", c.ttl).Result()
}

func (c *RedisClaimer) Release(ctx context.Context, key string) error {
	return c.client.Del(ctx, IdempotencyKeyPrefix+key).Err()
}

// MemoryClaimer is used when Redis is not configured. Keys are only
// remembered by this process.
type MemoryClaimer struct {
	mu   sync.Mutex
	keys map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryClaimer(ttl time.Duration) *MemoryClaimer {
	if ttl <= 0 {
		ttl = IdempotencyTTL
	}
	return &MemoryClaimer{keys: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

func (c *MemoryClaimer) Claim(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, exp := range c.keys {
		if now.After(exp) {
			delete(c.keys, k)
		}
	}
	if _, ok := c.keys[key]; ok {
		return false, nil
	}
	c.keys[key] = now.Add(c.ttl)
	return true, nil
}

func (c *MemoryClaimer) Release(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.keys, key)
	c.mu.Unlock()
	return nil
}

// IdempotencyKey trims and bounds a client supplied key; empty means none.
func IdempotencyKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) > 128 {
		raw = raw[:128]
	}
	return raw
}
