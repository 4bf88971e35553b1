package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opt)
	t.Cleanup(func() { client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	return client
}

func TestCacheRejectsLookupThatRacedAWrite(t *testing.T) {
	ctx := context.Background()
	cache := NewUserCache(testRedis(t), time.Minute)
	id := uuid.New().String()
	stale := &models.User{ID: id, Name: "before"}

	// a lookup reads the generation, a write finishes, then the lookup tries
	// to cache what it read
	gen := cache.Generation(ctx, id)
	cache.Invalidate(ctx, id)
	if cache.SetIfCurrent(ctx, stale, gen) {
		t.Fatal("stale record was cached after an invalidation")
	}
	if _, ok := cache.Get(ctx, id); ok {
		t.Fatal("stale record is served from the cache")
	}

	fresh := &models.User{ID: id, Name: "after"}
	if !cache.SetIfCurrent(ctx, fresh, cache.Generation(ctx, id)) {
		t.Fatal("lookup with the current generation should be cached")
	}
	got, ok := cache.Get(ctx, id)
	if !ok || got.Name != "after" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	cache.Invalidate(ctx, id)
	if _, ok := cache.Get(ctx, id); ok {
		t.Error("Invalidate should drop the cached record")
	}
}

func TestCachedUserStoreDropsCopyOnWrite(t *testing.T) {
	ctx := context.Background()
	client := testRedis(t)
	store := NewCachedUserStore(NewMemoryUserStore(), NewUserCache(client, time.Minute))

	u := &models.User{Email: uuid.New().String() + "@example.com"}
	if err := store.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}
	if _, err := store.FindUserByID(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AppendJournal(ctx, u.ID, models.JournalEntry{ID: "1", Content: "x"}); err != nil {
		t.Fatal(err)
	}
	got, err := store.FindUserByID(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Journal) != 1 {
		t.Errorf("cached lookup after append = %+v", got.Journal)
	}
}
