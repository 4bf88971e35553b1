package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

// MemoryUserStore keeps users in process memory. It backs the server when
// MONGODB_URI is "memory" and stands in for Mongo in handler tests.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	now   func() time.Time
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*models.User), now: time.Now}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Journal = append([]models.JournalEntry{}, u.Journal...)
	c.Folders = append([]models.Folder{}, u.Folders...)
	return &c
}

func (s *MemoryUserStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := NormalizeEmail(u.Email)
	for _, existing := range s.users {
		if existing.Email == email {
			return ErrEmailTaken
		}
	}
	u.ID = primitive.NewObjectID().Hex()
	u.Email = email
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	if u.Journal == nil {
		u.Journal = []models.JournalEntry{}
	}
	if u.Folders == nil {
		u.Folders = []models.Folder{}
	}
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *MemoryUserStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryUserStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = NormalizeEmail(email)
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) AppendJournal(_ context.Context, userID string, entry models.JournalEntry) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Journal = append(u.Journal, entry)
	return cloneUser(u), nil
}

func (s *MemoryUserStore) SaveJournalContent(_ context.Context, req SaveContent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.UserID]
	if !ok {
		return ErrUserNotFound
	}
	stamp := req.LastUpdated
	if stamp.IsZero() {
		stamp = s.now().UTC()
	}
	for i := range u.Journal {
		if u.Journal[i].ID != req.JournalID {
			continue
		}
		if req.IfNotAfter && u.Journal[i].LastUpdated.After(stamp) {
			return ErrStaleWrite
		}
		u.Journal[i].Content = req.Content
		u.Journal[i].LastUpdated = stamp
		return nil
	}
	return ErrJournalNotFound
}

func (s *MemoryUserStore) DeleteJournal(_ context.Context, userID string, journalID models.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	for i := range u.Journal {
		if u.Journal[i].ID == journalID {
			u.Journal = append(u.Journal[:i], u.Journal[i+1:]...)
			return nil
		}
	}
	return ErrJournalNotFound
}
