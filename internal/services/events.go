package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

// Event types published after each journal mutation.
const (
	EventJournalAdded   = "journal_added"
	EventJournalSaved   = "journal_saved"
	EventJournalDeleted = "journal_deleted"
)

const journalChannelPrefix = "journal:user:"

// JournalEvent tells a user's other devices that their record changed.
type JournalEvent struct {
	Type      string         `json:"type"`
	UserID    string         `json:"user_id"`
	JournalID models.EntryID `json:"journal_id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Hub fans events out to the connections of this instance.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan JournalEvent]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan JournalEvent]struct{})}
}

// Subscribe registers interest in userID's events. The returned function
// unsubscribes and closes the channel.
func (h *Hub) Subscribe(userID string) (<-chan JournalEvent, func()) {
	ch := make(chan JournalEvent, 16)
	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan JournalEvent]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			close(ch)
			h.mu.Unlock()
		})
	}
}

// FanOut delivers evt to local subscribers. Slow subscribers miss events
// rather than block the publisher.
func (h *Hub) FanOut(evt JournalEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[evt.UserID] {
		select {
		case ch <- evt:
		default:
			log.Printf("[Hub] dropping %s event for user %s: subscriber is slow", evt.Type, evt.UserID)
		}
	}
}

// EventBus publishes through Redis so every instance sees every event. With
// no Redis client events only reach this instance.
type EventBus struct {
	client  *redis.Client
	hub     *Hub
	started sync.Once
}

func NewEventBus(client *redis.Client, hub *Hub) *EventBus {
	return &EventBus{client: client, hub: hub}
}

func (b *EventBus) Hub() *Hub { return b.hub }

func (b *EventBus) Publish(ctx context.Context, evt JournalEvent) error {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if b.client == nil {
		b.hub.FanOut(evt)
		return nil
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, journalChannelPrefix+evt.UserID, data).Err()
}

// Start launches the shared Redis subscriber once per instance.
func (b *EventBus) Start(ctx context.Context) {
	if b.client == nil {
		return
	}
	b.started.Do(func() {
		go b.run(ctx)
	})
}

func (b *EventBus) run(ctx context.Context) {
	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := b.client.PSubscribe(ctx, journalChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ Journal event subscriber started (pattern: journal:user:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}
				backoff = time.Second

				var evt JournalEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Printf("failed to unmarshal journal event: %v", err)
					continue
				}
				if evt.UserID == "" {
					evt.UserID = strings.TrimPrefix(msg.Channel, journalChannelPrefix)
				}
				b.hub.FanOut(evt)
			}
		}()
	}
}
