// Package localstore persists the client's copy of the user record and its
// selection keys in a diskv directory. It is the client's source of truth.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

// Keys written by the store.
const (
	KeyUser            = "user"
	KeySelectedFolder  = "selectedFolder"
	KeySelectedDate    = "selectedDate"
	KeyThemePreference = "themePreference"
	KeyOutbox          = "outbox"
)

var (
	// ErrNoUser is returned when no user record has been stored yet.
	ErrNoUser = errors.New("localstore: no user signed in")
	// ErrLocked is returned when another process held the store too long.
	ErrLocked = errors.New("localstore: store is locked by another process")
)

const (
	lockName  = ".lock"
	lockWait  = 5 * time.Second
	lockStale = 30 * time.Second
	lockPoll  = 10 * time.Millisecond
)

// Store wraps diskv. Writes hold the mutex and a lock file in the base
// directory, so read-modify-write cycles on the user record cannot lose
// updates to another goroutine or another journal process.
type Store struct {
	mu   sync.Mutex
	d    *diskv.Diskv
	base string
}

// Open creates (if needed) and opens a store rooted at basePath.
func Open(basePath string) (*Store, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("localstore: base path required")
	}
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("localstore: ensure base path: %w", err)
	}
	d := diskv.New(diskv.Options{
		BasePath:     basePath,
		TempDir:      filepath.Join(basePath, ".tmp"),
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 0, // other processes write the same files
		FilePerm:     0o600,
		PathPerm:     0o700,
	})
	return &Store{d: d, base: basePath}, nil
}

// lock takes the mutex and the lock file. A lock file older than lockStale
// is left over from a crashed process and is removed.
func (s *Store) lock() (func(), error) {
	s.mu.Lock()
	path := filepath.Join(s.base, lockName)
	deadline := time.Now().Add(lockWait)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() {
				os.Remove(path)
				s.mu.Unlock()
			}, nil
		}
		if !os.IsExist(err) {
			s.mu.Unlock()
			return nil, fmt.Errorf("localstore: lock: %w", err)
		}
		if fi, statErr := os.Stat(path); statErr == nil && time.Since(fi.ModTime()) > lockStale {
			os.Remove(path)
			continue
		}
		if time.Now().After(deadline) {
			s.mu.Unlock()
			return nil, ErrLocked
		}
		time.Sleep(lockPoll)
	}
}

func (s *Store) readJSON(key string, dest interface{}) (bool, error) {
	val, err := s.readRaw(key)
	if err != nil || val == nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) writeJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	return nil
}

func (s *Store) loadUser() (*models.User, error) {
	var u models.User
	ok, err := s.readJSON(KeyUser, &u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoUser
	}
	return &u, nil
}

// LoadUser reads the whole user record.
func (s *Store) LoadUser() (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUser()
}

// SaveUser replaces the whole user record.
func (s *Store) SaveUser(u *models.User) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	return s.writeJSON(KeyUser, u)
}

// Update runs fn against the stored record and writes the result back as one
// transaction. Nothing is written when fn returns an error.
func (s *Store) Update(fn func(u *models.User) error) (*models.User, error) {
	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, err := s.loadUser()
	if err != nil {
		return nil, err
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	if err := s.writeJSON(KeyUser, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ClearUser removes the user record and the selection keys.
func (s *Store) ClearUser() error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	for _, key := range []string{KeyUser, KeySelectedFolder, KeySelectedDate} {
		if !s.d.Has(key) {
			continue
		}
		if err := s.d.Erase(key); err != nil {
			return fmt.Errorf("localstore: erase %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) readString(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, err := s.readRaw(key)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (s *Store) writeString(key, value string) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	if value == "" {
		if !s.d.Has(key) {
			return nil
		}
		return s.d.Erase(key)
	}
	return s.d.Write(key, []byte(value))
}

// SelectedFolder returns the folder filter, empty when none is selected.
func (s *Store) SelectedFolder() (string, error) {
	return s.readString(KeySelectedFolder)
}

// SetSelectedFolder stores the folder filter; empty clears it.
func (s *Store) SetSelectedFolder(id string) error {
	return s.writeString(KeySelectedFolder, id)
}

// SelectedDate returns the selected day, or the zero time when unset.
func (s *Store) SelectedDate() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t time.Time
	if _, err := s.readJSON(KeySelectedDate, &t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// SetSelectedDate stores the selected day as a JSON encoded timestamp.
func (s *Store) SetSelectedDate(t time.Time) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	return s.writeJSON(KeySelectedDate, t)
}

// Theme returns the stored theme key normalized against the theme table.
func (s *Store) Theme() (string, error) {
	v, err := s.readString(KeyThemePreference)
	if err != nil {
		return "", err
	}
	return models.NormalizeTheme(v), nil
}

// SetTheme stores a theme key.
func (s *Store) SetTheme(key string) error {
	return s.writeString(KeyThemePreference, models.NormalizeTheme(key))
}

// ReadRaw returns the bytes stored under key, nil when absent.
func (s *Store) ReadRaw(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRaw(key)
}

func (s *Store) readRaw(key string) ([]byte, error) {
	if !s.d.Has(key) {
		return nil, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("localstore: read %s: %w", key, err)
	}
	return val, nil
}

// UpdateRaw replaces the bytes under key with fn's result while holding the
// store lock. Nothing is written when fn fails.
func (s *Store) UpdateRaw(key string, fn func(old []byte) ([]byte, error)) error {
	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()
	old, err := s.readRaw(key)
	if err != nil {
		return err
	}
	val, err := fn(old)
	if err != nil {
		return err
	}
	if err := s.d.Write(key, val); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	return nil
}
