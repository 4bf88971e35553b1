package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

func TestMemoryUserStoreJournalLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	u := &models.User{Name: "Ada", Email: " Ada@Example.com ", Password: "hash"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" || u.Email != "ada@example.com" {
		t.Fatalf("unexpected user after create: %+v", u)
	}
	if err := s.CreateUser(ctx, &models.User{Email: "ADA@example.com"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}

	created := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	entry := models.JournalEntry{ID: "1000", Title: "Test", LastUpdated: created}
	got, err := s.AppendJournal(ctx, u.ID, entry)
	if err != nil {
		t.Fatalf("AppendJournal: %v", err)
	}
	if len(got.Journal) != 1 {
		t.Fatalf("journal length = %d", len(got.Journal))
	}

	t.Run("stale write rejected", func(t *testing.T) {
		err := s.SaveJournalContent(ctx, SaveContent{
			UserID: u.ID, JournalID: "1000", Content: "old",
			LastUpdated: created.Add(-time.Minute), IfNotAfter: true,
		})
		if !errors.Is(err, ErrStaleWrite) {
			t.Fatalf("got %v, want ErrStaleWrite", err)
		}
	})

	t.Run("newer write applied", func(t *testing.T) {
		later := created.Add(time.Minute)
		err := s.SaveJournalContent(ctx, SaveContent{
			UserID: u.ID, JournalID: "1000", Content: "Hello",
			LastUpdated: later, IfNotAfter: true,
		})
		if err != nil {
			t.Fatalf("SaveJournalContent: %v", err)
		}
		fresh, _ := s.FindUserByID(ctx, u.ID)
		if fresh.Journal[0].Content != "Hello" || !fresh.Journal[0].LastUpdated.Equal(later) {
			t.Fatalf("entry not updated: %+v", fresh.Journal[0])
		}
	})

	t.Run("missing targets", func(t *testing.T) {
		if err := s.SaveJournalContent(ctx, SaveContent{UserID: "nope", JournalID: "1000"}); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("missing user: %v", err)
		}
		if err := s.SaveJournalContent(ctx, SaveContent{UserID: u.ID, JournalID: "2000"}); !errors.Is(err, ErrJournalNotFound) {
			t.Errorf("missing journal: %v", err)
		}
		if err := s.DeleteJournal(ctx, u.ID, "2000"); !errors.Is(err, ErrJournalNotFound) {
			t.Errorf("delete missing journal: %v", err)
		}
	})

	if err := s.DeleteJournal(ctx, u.ID, "1000"); err != nil {
		t.Fatalf("DeleteJournal: %v", err)
	}
	fresh, _ := s.FindUserByID(ctx, u.ID)
	if len(fresh.Journal) != 0 {
		t.Fatalf("journal not empty after delete: %+v", fresh.Journal)
	}
}

func TestMemoryClaimer(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClaimer(time.Hour)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if ok, _ := c.Claim(ctx, "k1"); !ok {
		t.Fatal("first claim should succeed")
	}
	if ok, _ := c.Claim(ctx, "k1"); ok {
		t.Fatal("second claim should be rejected")
	}
	if err := c.Release(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Claim(ctx, "k1"); !ok {
		t.Fatal("claim after release should succeed")
	}

	now = now.Add(2 * time.Hour)
	if ok, _ := c.Claim(ctx, "k1"); !ok {
		t.Fatal("claim after expiry should succeed")
	}
}

func TestIdempotencyKey(t *testing.T) {
	if got := IdempotencyKey("  abc  "); got != "abc" {
		t.Errorf("got %q", got)
	}
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	if got := IdempotencyKey(string(long)); len(got) != 128 {
		t.Errorf("len = %d, want 128", len(got))
	}
}

func TestHubFanOut(t *testing.T) {
	h := NewHub()
	ch, unsubscribe := h.Subscribe("u1")
	other, unsubscribeOther := h.Subscribe("u2")
	defer unsubscribeOther()

	h.FanOut(JournalEvent{Type: EventJournalAdded, UserID: "u1", JournalID: "1"})

	select {
	case evt := <-ch:
		if evt.Type != EventJournalAdded || evt.JournalID != "1" {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	select {
	case evt := <-other:
		t.Fatalf("other user received %+v", evt)
	default:
	}

	unsubscribe()
	unsubscribe()
	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}
	h.FanOut(JournalEvent{Type: EventJournalSaved, UserID: "u1"})
}

func TestEventBusWithoutRedisFansOutLocally(t *testing.T) {
	bus := NewEventBus(nil, NewHub())
	bus.Start(context.Background())
	ch, unsubscribe := bus.Hub().Subscribe("u1")
	defer unsubscribe()

	if err := bus.Publish(context.Background(), JournalEvent{Type: EventJournalDeleted, UserID: "u1"}); err != nil {
		t.Fatal(err)
	}
	evt := <-ch
	if evt.Timestamp.IsZero() {
		t.Error("publish should stamp the event")
	}
}

func TestNilBackedServicesAreNoOps(t *testing.T) {
	ctx := context.Background()
	cache := NewUserCache(nil, 0)
	if _, ok := cache.Get(ctx, "u1"); ok {
		t.Error("nil cache should always miss")
	}
	if cache.SetIfCurrent(ctx, &models.User{ID: "u1"}, cache.Generation(ctx, "u1")) {
		t.Error("nil cache should not store")
	}
	cache.Invalidate(ctx, "u1")

	store := NewCachedUserStore(NewMemoryUserStore(), cache)
	if _, err := store.FindUserByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}

	act := NewActivityLog(nil)
	if act.Enabled() {
		t.Error("activity log without db should be disabled")
	}
	act.Record("u1", "1", ActionAdded)
	rows, err := act.Recent(ctx, "u1", 10)
	if err != nil || len(rows) != 0 {
		t.Errorf("Recent = %v, %v", rows, err)
	}
}

func TestCacheTTLBounds(t *testing.T) {
	if c := NewUserCache(nil, 0); c.ttl != DefaultCacheTTL {
		t.Errorf("ttl = %v", c.ttl)
	}
	if c := NewUserCache(nil, 48*time.Hour); c.ttl != MaxCacheTTL {
		t.Errorf("ttl = %v", c.ttl)
	}
	if got := CacheKey("user", "abc"); got != "cache:user:abc" {
		t.Errorf("CacheKey = %q", got)
	}
}
