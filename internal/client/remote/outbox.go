package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/journalify-backend/internal/client/localstore"
	"github.com/AnshRaj112/journalify-backend/internal/models"
)

type Op string

const (
	OpAdd    Op = "add"
	OpSave   Op = "save"
	OpDelete Op = "delete"
)

const (
	minBackoff = time.Second
	maxBackoff = 5 * time.Minute
)

// Intent is one queued mutation. ID doubles as the server idempotency key.
type Intent struct {
	ID          string               `json:"id"`
	Seq         uint64               `json:"seq"`
	Op          Op                   `json:"op"`
	UserID      string               `json:"userId"`
	Entry       *models.JournalEntry `json:"entry,omitempty"`
	JournalID   models.EntryID       `json:"journalId,omitempty"`
	Content     string               `json:"content,omitempty"`
	LastUpdated *time.Time           `json:"lastUpdated,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	Attempts    int                  `json:"attempts"`
	NextAttempt time.Time            `json:"nextAttempt,omitempty"`
	LastError   string               `json:"lastError,omitempty"`
}

type outboxState struct {
	NextSeq uint64   `json:"nextSeq"`
	Intents []Intent `json:"intents"`
}

// RawStore is the slice of localstore.Store the outbox needs.
type RawStore interface {
	ReadRaw(key string) ([]byte, error)
	UpdateRaw(key string, fn func(old []byte) ([]byte, error)) error
}

// ErrBackingOff is returned by Drain when the head intent is not due yet.
var ErrBackingOff = errors.New("remote: outbox backing off")

// Outbox persists mutations and pushes them to the server in order. An
// intent leaves the queue only once the server acknowledged it or rejected
// it for good.
type Outbox struct {
	store RawStore
	api   API
	now   func() time.Time

	drainMu sync.Mutex
}

func NewOutbox(store RawStore, api API) *Outbox {
	return &Outbox{store: store, api: api, now: time.Now}
}

func decodeState(raw []byte) (outboxState, error) {
	var st outboxState
	if len(raw) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return st, fmt.Errorf("remote: decode outbox: %w", err)
	}
	return st, nil
}

func (o *Outbox) update(fn func(st *outboxState) error) error {
	return o.store.UpdateRaw(localstore.KeyOutbox, func(old []byte) ([]byte, error) {
		st, err := decodeState(old)
		if err != nil {
			return nil, err
		}
		if err := fn(&st); err != nil {
			return nil, err
		}
		return json.Marshal(st)
	})
}

func (o *Outbox) enqueue(in Intent) error {
	return o.update(func(st *outboxState) error {
		st.NextSeq++
		in.ID = uuid.New().String()
		in.Seq = st.NextSeq
		in.CreatedAt = o.now().UTC()
		st.Intents = append(st.Intents, in)
		return nil
	})
}

func (o *Outbox) Added(_ context.Context, userID string, entry models.JournalEntry) error {
	return o.enqueue(Intent{Op: OpAdd, UserID: userID, Entry: &entry, JournalID: entry.ID})
}

func (o *Outbox) Saved(_ context.Context, userID string, journalID models.EntryID, content string, lastUpdated time.Time) error {
	return o.enqueue(Intent{Op: OpSave, UserID: userID, JournalID: journalID, Content: content, LastUpdated: &lastUpdated})
}

func (o *Outbox) Deleted(_ context.Context, userID string, journalID models.EntryID) error {
	return o.enqueue(Intent{Op: OpDelete, UserID: userID, JournalID: journalID})
}

// Pending returns the queued intents in send order.
func (o *Outbox) Pending() ([]Intent, error) {
	raw, err := o.store.ReadRaw(localstore.KeyOutbox)
	if err != nil {
		return nil, err
	}
	st, err := decodeState(raw)
	if err != nil {
		return nil, err
	}
	return st.Intents, nil
}

func (o *Outbox) send(ctx context.Context, in Intent) error {
	switch in.Op {
	case OpAdd:
		if in.Entry == nil {
			return fmt.Errorf("remote: add intent %s has no entry", in.ID)
		}
		_, err := o.api.AddJournal(ctx, in.UserID, *in.Entry, in.ID)
		return err
	case OpSave:
		return o.api.SaveJournalContent(ctx, in.UserID, in.JournalID, in.Content, in.LastUpdated)
	case OpDelete:
		return o.api.DeleteJournal(ctx, in.UserID, in.JournalID)
	}
	return fmt.Errorf("remote: unknown intent op %q", in.Op)
}

// terminal errors will not go away by retrying.
func terminal(err error) bool {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 400 && se.Code < 500 && se.Code != 429 && se.Code != 408
}

func backoff(attempts int) time.Duration {
	d := minBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

func (o *Outbox) remove(id string) error {
	return o.update(func(st *outboxState) error {
		for i := range st.Intents {
			if st.Intents[i].ID == id {
				st.Intents = append(st.Intents[:i], st.Intents[i+1:]...)
				break
			}
		}
		return nil
	})
}

// Drain sends queued intents oldest first and returns how many left the
// queue. It stops at the first retryable failure so later intents never
// overtake earlier ones.
func (o *Outbox) Drain(ctx context.Context) (int, error) {
	o.drainMu.Lock()
	defer o.drainMu.Unlock()

	done := 0
	for {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		pending, err := o.Pending()
		if err != nil {
			return done, err
		}
		if len(pending) == 0 {
			return done, nil
		}
		head := pending[0]
		if o.now().Before(head.NextAttempt) {
			return done, ErrBackingOff
		}

		sendErr := o.send(ctx, head)
		if sendErr == nil || terminal(sendErr) {
			if sendErr != nil {
				log.Printf("[Outbox] dropping %s intent %s for journal %s: %v", head.Op, head.ID, head.JournalID, sendErr)
			}
			if err := o.remove(head.ID); err != nil {
				return done, err
			}
			done++
			continue
		}

		err = o.update(func(st *outboxState) error {
			for i := range st.Intents {
				if st.Intents[i].ID == head.ID {
					st.Intents[i].Attempts++
					st.Intents[i].NextAttempt = o.now().Add(backoff(st.Intents[i].Attempts)).UTC()
					st.Intents[i].LastError = sendErr.Error()
				}
			}
			return nil
		})
		if err != nil {
			return done, err
		}
		return done, sendErr
	}
}

// Run drains every interval until ctx ends.
func (o *Outbox) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		n, err := o.Drain(ctx)
		if n > 0 {
			log.Printf("[Outbox] synced %d change(s)", n)
		}
		if err != nil && !errors.Is(err, ErrBackingOff) && ctx.Err() == nil {
			log.Printf("[Outbox] drain: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
