package models

import "time"

// Request and response bodies shared by the HTTP handlers and the sync client.

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddJournalRequest struct {
	UserID  string       `json:"userId"`
	Journal JournalEntry `json:"journal"`
}

type SaveJournalRequest struct {
	UserID      string     `json:"userId"`
	JournalID   EntryID    `json:"journalId"`
	Content     string     `json:"content"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"` // enables last-writer-wins when set
}

type DeleteJournalRequest struct {
	UserID    string  `json:"userId"`
	JournalID EntryID `json:"journalId"`
}

// UserResponse wraps a user for signup, signin, addjournal and user lookups.
type UserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// MessageResponse is the envelope of every other reply, errors included.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// IdempotencyHeader carries a client-generated key that makes a retried
// addjournal request a no-op.
const IdempotencyHeader = "Idempotency-Key"
