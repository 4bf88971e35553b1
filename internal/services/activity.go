package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

// Journal actions recorded in journal_activity.
const (
	ActionAdded   = "added"
	ActionSaved   = "saved"
	ActionDeleted = "deleted"
)

// Activity is one row of journal_activity.
type Activity struct {
	UserID    string         `json:"user_id"`
	JournalID models.EntryID `json:"journal_id"`
	Action    string         `json:"action"`
	CreatedAt time.Time      `json:"created_at"`
}

// ActivityLog writes journal mutations to Postgres. With no database every
// call is a no-op.
type ActivityLog struct {
	db *sql.DB
}

func NewActivityLog(db *sql.DB) *ActivityLog {
	return &ActivityLog{db: db}
}

func (a *ActivityLog) Enabled() bool {
	return a != nil && a.db != nil
}

// Record inserts asynchronously so requests never wait on Postgres.
func (a *ActivityLog) Record(userID string, journalID models.EntryID, action string) {
	if !a.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err := a.db.ExecContext(ctx, `
			INSERT INTO journal_activity (id, user_id, journal_id, action, created_at)
			VALUES ($1, $2, $3, $4, NOW())
		`, uuid.New().String(), userID, journalID.String(), action)
		if err != nil {
			log.Printf("[ActivityLog] failed to record %s for user %s: %v", action, userID, err)
		}
	}()
}

// Recent returns the newest rows for userID, at most limit of them.
func (a *ActivityLog) Recent(ctx context.Context, userID string, limit int) ([]Activity, error) {
	if !a.Enabled() {
		return []Activity{}, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT user_id, journal_id, action, created_at
		FROM journal_activity
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Activity{}
	for rows.Next() {
		var act Activity
		var jid string
		if err := rows.Scan(&act.UserID, &jid, &act.Action, &act.CreatedAt); err != nil {
			return nil, err
		}
		act.JournalID = models.EntryID(jid)
		out = append(out, act)
	}
	return out, rows.Err()
}
