// Package remote talks to the journal backend: a plain HTTP client plus the
// two sync policies layered on it, Mirror and Outbox.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

var (
	ErrNotFound     = errors.New("remote: not found")
	ErrConflict     = errors.New("remote: conflict")
	ErrUnauthorized = errors.New("remote: unauthorized")
)

// DefaultTimeout bounds every request when the caller gives none.
const DefaultTimeout = 10 * time.Second

// StatusError carries an unexpected HTTP status and the server's message.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: status %d: %s", e.Code, e.Message)
}

// API is the part of Client the sync policies depend on.
type API interface {
	AddJournal(ctx context.Context, userID string, entry models.JournalEntry, idempotencyKey string) (*models.User, error)
	SaveJournalContent(ctx context.Context, userID string, journalID models.EntryID, content string, lastUpdated *time.Time) error
	DeleteJournal(ctx context.Context, userID string, journalID models.EntryID) error
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, header http.Header, out interface{}) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("remote: decode %s response: %w", path, err)
		}
		return nil
	}

	var msg models.MessageResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if json.Unmarshal(raw, &msg) != nil || msg.Message == "" {
		msg.Message = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg.Message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg.Message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg.Message)
	}
	return &StatusError{Code: resp.StatusCode, Message: msg.Message}
}

func userFrom(resp models.UserResponse) (*models.User, error) {
	if resp.User == nil {
		return nil, errors.New("remote: response carried no user")
	}
	return resp.User, nil
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	var resp models.UserResponse
	err := c.do(ctx, http.MethodPut, "/signup", models.SignupRequest{Name: name, Email: email, Password: password}, nil, &resp)
	if err != nil {
		return nil, err
	}
	return userFrom(resp)
}

func (c *Client) Signin(ctx context.Context, email, password string) (*models.User, error) {
	var resp models.UserResponse
	err := c.do(ctx, http.MethodPost, "/signin", models.SigninRequest{Email: email, Password: password}, nil, &resp)
	if err != nil {
		return nil, err
	}
	return userFrom(resp)
}

// FetchUser returns the server's copy of the user record.
func (c *Client) FetchUser(ctx context.Context, userID string) (*models.User, error) {
	var resp models.UserResponse
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return userFrom(resp)
}

// AddJournal appends entry server side. A non-empty idempotencyKey makes
// retries of the same append harmless.
func (c *Client) AddJournal(ctx context.Context, userID string, entry models.JournalEntry, idempotencyKey string) (*models.User, error) {
	var header http.Header
	if idempotencyKey != "" {
		header = http.Header{}
		header.Set(models.IdempotencyHeader, idempotencyKey)
	}
	var resp models.UserResponse
	err := c.do(ctx, http.MethodPut, "/addjournal", models.AddJournalRequest{UserID: userID, Journal: entry}, header, &resp)
	if err != nil {
		return nil, err
	}
	return userFrom(resp)
}

func (c *Client) SaveJournalContent(ctx context.Context, userID string, journalID models.EntryID, content string, lastUpdated *time.Time) error {
	return c.do(ctx, http.MethodPut, "/savejournal", models.SaveJournalRequest{
		UserID:      userID,
		JournalID:   journalID,
		Content:     content,
		LastUpdated: lastUpdated,
	}, nil, nil)
}

func (c *Client) DeleteJournal(ctx context.Context, userID string, journalID models.EntryID) error {
	return c.do(ctx, http.MethodDelete, "/deletejournal", models.DeleteJournalRequest{UserID: userID, JournalID: journalID}, nil, nil)
}
