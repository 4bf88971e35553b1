package remote

import (
	"context"
	"log"
	"time"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

// Syncer propagates local journal mutations to the server.
type Syncer interface {
	Added(ctx context.Context, userID string, entry models.JournalEntry) error
	Saved(ctx context.Context, userID string, journalID models.EntryID, content string, lastUpdated time.Time) error
	Deleted(ctx context.Context, userID string, journalID models.EntryID) error
}

// Mirror sends each mutation once, right away. Failures are logged and
// dropped; the local store stays authoritative.
type Mirror struct {
	api API
}

func NewMirror(api API) *Mirror {
	return &Mirror{api: api}
}

func (m *Mirror) Added(ctx context.Context, userID string, entry models.JournalEntry) error {
	if _, err := m.api.AddJournal(ctx, userID, entry, ""); err != nil {
		log.Printf("[Mirror] add journal %s: %v", entry.ID, err)
	}
	return nil
}

func (m *Mirror) Saved(ctx context.Context, userID string, journalID models.EntryID, content string, lastUpdated time.Time) error {
	if err := m.api.SaveJournalContent(ctx, userID, journalID, content, &lastUpdated); err != nil {
		log.Printf("[Mirror] save journal %s: %v", journalID, err)
	}
	return nil
}

func (m *Mirror) Deleted(ctx context.Context, userID string, journalID models.EntryID) error {
	if err := m.api.DeleteJournal(ctx, userID, journalID); err != nil {
		log.Printf("[Mirror] delete journal %s: %v", journalID, err)
	}
	return nil
}
