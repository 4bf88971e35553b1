// Package appstate is the client's application state container. Every
// mutation of the local user record goes through one writer method here, and
// each writer is a single localstore transaction followed by a sync call.
package appstate

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/AnshRaj112/journalify-backend/internal/client/journal"
	"github.com/AnshRaj112/journalify-backend/internal/client/localstore"
	"github.com/AnshRaj112/journalify-backend/internal/client/remote"
	"github.com/AnshRaj112/journalify-backend/internal/models"
)

var (
	ErrNoUser         = localstore.ErrNoUser
	ErrEntryNotFound  = errors.New("journal entry not found")
	ErrFolderNotFound = errors.New("folder not found")
	ErrEmptyEntry     = errors.New("entry needs a title or content")
	ErrEmptyFolder    = errors.New("folder needs a title")
)

// folderPalette colors new folders that were given no color.
var folderPalette = []string{"#F44336", "#2196F3", "#4CAF50", "#FF9800", "#9C27B0", "#009688"}

type State struct {
	store *localstore.Store
	sync  remote.Syncer
	now   func() time.Time
}

// New wires a state container. syncer may be nil for offline use.
func New(store *localstore.Store, syncer remote.Syncer) *State {
	return &State{store: store, sync: syncer, now: time.Now}
}

// stamp is the current time at the precision the server keeps.
func (s *State) stamp() time.Time {
	return s.now().Truncate(time.Millisecond)
}

func (s *State) synced(op string, err error) {
	if err != nil {
		log.Printf("[appstate] queue %s for sync: %v", op, err)
	}
}

// SignIn replaces the local record with the server's copy.
func (s *State) SignIn(u *models.User) error {
	local := u.Public()
	if err := s.store.SaveUser(&local); err != nil {
		return err
	}
	if local.ThemePreference != "" {
		return s.store.SetTheme(local.ThemePreference)
	}
	return nil
}

var errOtherUser = errors.New("stored record belongs to another user")

// Refresh takes the server's journal while keeping what only this device
// knows: folders, folder assignments, the theme and content edited here
// after the server's copy. Entries the server lacks are dropped, so callers
// push them first (see Unsynced). A record for a different user is replaced
// outright.
func (s *State) Refresh(u *models.User) error {
	_, err := s.store.Update(func(local *models.User) error {
		if local.ID != u.ID {
			return errOtherUser
		}
		merged := u.Public()
		if len(merged.Folders) == 0 {
			merged.Folders = local.Folders
		}
		if merged.ThemePreference == "" {
			merged.ThemePreference = local.ThemePreference
		}
		for i := range merged.Journal {
			prev, ok := journal.FindByID(local.Journal, merged.Journal[i].ID)
			if !ok {
				continue
			}
			merged.Journal[i].FolderID = prev.FolderID
			if prev.LastUpdated.After(merged.Journal[i].LastUpdated) {
				merged.Journal[i].Content = prev.Content
				merged.Journal[i].LastUpdated = prev.LastUpdated
			}
		}
		*local = merged
		return nil
	})
	if errors.Is(err, ErrNoUser) || errors.Is(err, errOtherUser) {
		return s.SignIn(u)
	}
	return err
}

// Unsynced compares the local journal with the server's copy and returns the
// local entries the server lacks and those whose content is newer here.
func (s *State) Unsynced(server *models.User) (missing, newer []models.JournalEntry, err error) {
	local, err := s.store.LoadUser()
	if err != nil {
		return nil, nil, err
	}
	if local.ID != server.ID {
		return nil, nil, nil
	}
	for _, e := range local.Journal {
		remote, ok := journal.FindByID(server.Journal, e.ID)
		switch {
		case !ok:
			missing = append(missing, e)
		case e.LastUpdated.After(remote.LastUpdated) && e.Content != remote.Content:
			newer = append(newer, e)
		}
	}
	return missing, newer, nil
}

func (s *State) SignOut() error {
	return s.store.ClearUser()
}

func (s *State) User() (*models.User, error) {
	return s.store.LoadUser()
}

// uniqueEntryID starts from the creation millisecond and bumps until no
// existing entry holds the id.
func uniqueEntryID(entries []models.JournalEntry, t time.Time) models.EntryID {
	n := t.UnixMilli()
	for {
		id := models.EntryID(strconv.FormatInt(n, 10))
		if _, taken := journal.FindByID(entries, id); !taken {
			return id
		}
		n++
	}
}

// CreateEntry appends a new entry stamped with the current time.
func (s *State) CreateEntry(ctx context.Context, title, content string, mood models.Mood, folderID string) (models.JournalEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" && strings.TrimSpace(content) == "" {
		return models.JournalEntry{}, ErrEmptyEntry
	}

	var entry models.JournalEntry
	u, err := s.store.Update(func(u *models.User) error {
		if folderID != "" && !u.HasFolder(folderID) {
			return ErrFolderNotFound
		}
		now := s.stamp()
		entry = models.JournalEntry{
			ID:          uniqueEntryID(u.Journal, now),
			Title:       title,
			Content:     content,
			Date:        models.FormatEntryDate(now),
			Mood:        mood,
			FolderID:    folderID,
			LastUpdated: now,
		}
		u.Journal = append(u.Journal, entry)
		return nil
	})
	if err != nil {
		return models.JournalEntry{}, err
	}

	if s.sync != nil {
		s.synced("add", s.sync.Added(ctx, u.ID, entry))
	}
	return entry, nil
}

// UpdateContent overwrites an entry's content. lastUpdated always moves
// forward, even when the clock has not.
func (s *State) UpdateContent(ctx context.Context, id models.EntryID, content string) (models.JournalEntry, error) {
	var entry models.JournalEntry
	u, err := s.store.Update(func(u *models.User) error {
		for i := range u.Journal {
			if u.Journal[i].ID != id {
				continue
			}
			stamp := s.stamp()
			if prev := u.Journal[i].LastUpdated; !stamp.After(prev) {
				stamp = prev.Truncate(time.Millisecond).Add(time.Millisecond)
			}
			u.Journal[i].Content = content
			u.Journal[i].LastUpdated = stamp
			entry = u.Journal[i]
			return nil
		}
		return ErrEntryNotFound
	})
	if err != nil {
		return models.JournalEntry{}, err
	}

	if s.sync != nil {
		s.synced("save", s.sync.Saved(ctx, u.ID, entry.ID, entry.Content, entry.LastUpdated))
	}
	return entry, nil
}

// AssignFolder files an entry; an empty folderID unfiles it. Folder
// assignments are kept locally only.
func (s *State) AssignFolder(id models.EntryID, folderID string) error {
	_, err := s.store.Update(func(u *models.User) error {
		if folderID != "" && !u.HasFolder(folderID) {
			return ErrFolderNotFound
		}
		if _, ok := journal.FindByID(u.Journal, id); !ok {
			return ErrEntryNotFound
		}
		u.Journal = journal.AssignFolder(u.Journal, id, folderID)
		return nil
	})
	return err
}

func (s *State) DeleteEntry(ctx context.Context, id models.EntryID) error {
	u, err := s.store.Update(func(u *models.User) error {
		if _, ok := journal.FindByID(u.Journal, id); !ok {
			return ErrEntryNotFound
		}
		u.Journal = journal.DeleteByID(u.Journal, id)
		return nil
	})
	if err != nil {
		return err
	}

	if s.sync != nil {
		s.synced("delete", s.sync.Deleted(ctx, u.ID, id))
	}
	return nil
}

// AddFolder creates a folder whose id is one past the largest numeric id.
func (s *State) AddFolder(title, color string) (models.Folder, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Folder{}, ErrEmptyFolder
	}

	var folder models.Folder
	_, err := s.store.Update(func(u *models.User) error {
		max := 0
		for _, f := range u.Folders {
			if n, err := strconv.Atoi(f.ID); err == nil && n > max {
				max = n
			}
		}
		if color == "" {
			color = folderPalette[len(u.Folders)%len(folderPalette)]
		}
		folder = models.Folder{ID: strconv.Itoa(max + 1), Title: title, Color: color}
		u.Folders = append(u.Folders, folder)
		return nil
	})
	return folder, err
}

func (s *State) Folders() ([]models.Folder, error) {
	u, err := s.store.LoadUser()
	if err != nil {
		return nil, err
	}
	return u.Folders, nil
}

// Entries returns the journal in insertion order.
func (s *State) Entries() ([]models.JournalEntry, error) {
	u, err := s.store.LoadUser()
	if err != nil {
		return nil, err
	}
	return u.Journal, nil
}

func (s *State) Entry(id models.EntryID) (models.JournalEntry, error) {
	entries, err := s.Entries()
	if err != nil {
		return models.JournalEntry{}, err
	}
	e, ok := journal.FindByID(entries, id)
	if !ok {
		return models.JournalEntry{}, ErrEntryNotFound
	}
	return e, nil
}

// EntryOrEmpty is Entry for views: a missing id yields an empty entry
// carrying that id instead of an error.
func (s *State) EntryOrEmpty(id models.EntryID) (models.JournalEntry, error) {
	entries, err := s.Entries()
	if err != nil {
		return models.JournalEntry{}, err
	}
	return journal.FindOrEmpty(entries, id), nil
}

func (s *State) EntriesOn(day time.Time) ([]models.JournalEntry, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	return journal.SortByDateIn(journal.FilterByDate(entries, day, s.now()), s.now().Location()), nil
}

func (s *State) EntriesInFolder(folderID string) ([]models.JournalEntry, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	return journal.SortByDateIn(journal.FilterByFolder(entries, folderID), s.now().Location()), nil
}

// VisibleEntries applies the stored folder and date selections, newest first.
// No stored date means every day.
func (s *State) VisibleEntries() ([]models.JournalEntry, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	folderID, err := s.store.SelectedFolder()
	if err != nil {
		return nil, err
	}
	day, err := s.store.SelectedDate()
	if err != nil {
		return nil, err
	}
	entries = journal.FilterByFolder(entries, folderID)
	if !day.IsZero() {
		entries = journal.FilterByDate(entries, day, s.now())
	}
	return journal.SortByDateIn(entries, s.now().Location()), nil
}

func (s *State) Streak() (int, error) {
	entries, err := s.Entries()
	if err != nil {
		return 0, err
	}
	return journal.Streak(entries, s.now()), nil
}

// SelectFolder stores the folder filter; "" clears it.
func (s *State) SelectFolder(folderID string) error {
	if folderID != "" {
		u, err := s.store.LoadUser()
		if err != nil {
			return err
		}
		if !u.HasFolder(folderID) {
			return ErrFolderNotFound
		}
	}
	return s.store.SetSelectedFolder(folderID)
}

// SelectDate stores the date filter; the zero time clears it.
func (s *State) SelectDate(day time.Time) error {
	if !day.IsZero() {
		day = models.Midnight(day, s.now().Location())
	}
	return s.store.SetSelectedDate(day)
}

// Selection returns the stored folder and date filters.
func (s *State) Selection() (string, time.Time, error) {
	folderID, err := s.store.SelectedFolder()
	if err != nil {
		return "", time.Time{}, err
	}
	day, err := s.store.SelectedDate()
	return folderID, day, err
}

// SetTheme stores the theme and, when someone is signed in, copies it into
// their record.
func (s *State) SetTheme(key string) (string, error) {
	key = models.NormalizeTheme(key)
	if err := s.store.SetTheme(key); err != nil {
		return "", err
	}
	_, err := s.store.Update(func(u *models.User) error {
		u.ThemePreference = key
		return nil
	})
	if err != nil && !errors.Is(err, ErrNoUser) {
		return "", err
	}
	return key, nil
}

func (s *State) Theme() (string, error) {
	return s.store.Theme()
}
