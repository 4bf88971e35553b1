package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL applies when no TTL is configured
	DefaultCacheTTL = 10 * time.Minute
	// MaxCacheTTL bounds how stale a cached user can get
	MaxCacheTTL = 6 * time.Hour
)

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s%s:%s", CacheKeyPrefix, resource, identifier)
}

// UserCache stores public user records in Redis. A nil client turns every
// call into a miss.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if ttl > MaxCacheTTL {
		ttl = MaxCacheTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

// Get returns the cached user; any Redis failure counts as a miss.
func (c *UserCache) Get(ctx context.Context, userID string) (*models.User, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, CacheKey("user", userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[UserCache] get %s: %v", userID, err)
		}
		return nil, false
	}
	var u models.User
	if err := json.Unmarshal(val, &u); err != nil {
		return nil, false
	}
	return &u, true
}

func generationKey(userID string) string {
	return CacheKey("gen:user", userID)
}

// Generation is bumped by every Invalidate. Read it before loading a user
// from the store and pass it to SetIfCurrent.
func (c *UserCache) Generation(ctx context.Context, userID string) int64 {
	if c == nil || c.client == nil {
		return 0
	}
	gen, err := c.client.Get(ctx, generationKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("[UserCache] generation %s: %v", userID, err)
		return -1
	}
	return gen
}

var errGenerationMoved = errors.New("cache generation moved")

// SetIfCurrent caches u only if no Invalidate ran since gen was read, so a
// lookup that raced a write cannot put the old record back.
func (c *UserCache) SetIfCurrent(ctx context.Context, u *models.User, gen int64) bool {
	if c == nil || c.client == nil || u == nil || gen < 0 {
		return false
	}
	data, err := json.Marshal(u.Public())
	if err != nil {
		return false
	}
	genKey := generationKey(u.ID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errGenerationMoved
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, CacheKey("user", u.ID), data, c.ttl)
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errGenerationMoved), errors.Is(err, redis.TxFailedErr):
	default:
		log.Printf("[UserCache] set %s: %v", u.ID, err)
	}
	return false
}

// Invalidate drops the cached user and bumps its generation.
func (c *UserCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, generationKey(userID))
		p.Expire(ctx, generationKey(userID), 2*MaxCacheTTL)
		p.Del(ctx, CacheKey("user", userID))
		return nil
	})
	if err != nil {
		log.Printf("[UserCache] invalidate %s: %v", userID, err)
	}
}

// CachedUserStore serves FindUserByID from the cache and drops the cached
// copy on every mutation. Lookups only fill the cache when no mutation
// finished while they read the store. Lookups by email always hit the store because they
// need the password hash, which is never cached.
type CachedUserStore struct {
	UserStore
	cache *UserCache
}

func NewCachedUserStore(store UserStore, cache *UserCache) *CachedUserStore {
	return &CachedUserStore{UserStore: store, cache: cache}
}

func (s *CachedUserStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.cache.Get(ctx, id); ok {
		return u, nil
	}
	gen := s.cache.Generation(ctx, id)
	u, err := s.UserStore.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetIfCurrent(ctx, u, gen)
	return u, nil
}

func (s *CachedUserStore) AppendJournal(ctx context.Context, userID string, entry models.JournalEntry) (*models.User, error) {
	defer s.cache.Invalidate(ctx, userID)
	return s.UserStore.AppendJournal(ctx, userID, entry)
}

func (s *CachedUserStore) SaveJournalContent(ctx context.Context, req SaveContent) error {
	defer s.cache.Invalidate(ctx, req.UserID)
	return s.UserStore.SaveJournalContent(ctx, req)
}

func (s *CachedUserStore) DeleteJournal(ctx context.Context, userID string, journalID models.EntryID) error {
	defer s.cache.Invalidate(ctx, userID)
	return s.UserStore.DeleteJournal(ctx, userID, journalID)
}
