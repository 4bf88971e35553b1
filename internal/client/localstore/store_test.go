package localstore

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func sampleUser() *models.User {
	ts := time.Date(2024, time.March, 15, 9, 0, 0, 123000000, time.UTC)
	return &models.User{
		ID:        "65f0c0ffee0000000000abcd",
		CreatedAt: ts.AddDate(0, -1, 0),
		Name:      "Sam",
		Email:     "sam@example.com",
		Journal: []models.JournalEntry{
			{ID: "1710493200123", Title: "Morning", Content: "coffee", Date: models.FormatEntryDate(ts), Mood: models.MoodHappy, FolderID: "1", LastUpdated: ts},
			{ID: "1710406800000", Title: "Old", Content: "", Date: models.LabelYesterday, LastUpdated: ts.AddDate(0, 0, -1)},
		},
		Folders:         []models.Folder{{ID: "1", Title: "Personal", Color: "#FFAA00"}},
		ThemePreference: models.ThemeDark,
	}
}

func TestUserRoundTrip(t *testing.T) {
	s := openTestStore(t)
	want := sampleUser()

	if err := s.SaveUser(want); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	got, err := s.LoadUser()
	if err != nil {
		t.Fatalf("LoadUser: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadUserMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadUser(); !errors.Is(err, ErrNoUser) {
		t.Fatalf("LoadUser on empty store = %v, want ErrNoUser", err)
	}
	if _, err := s.Update(func(*models.User) error { return nil }); !errors.Is(err, ErrNoUser) {
		t.Fatalf("Update on empty store = %v, want ErrNoUser", err)
	}
}

func TestUpdate(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveUser(sampleUser()); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}

	t.Run("writes result", func(t *testing.T) {
		_, err := s.Update(func(u *models.User) error {
			u.Name = "Samantha"
			return nil
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		u, _ := s.LoadUser()
		if u.Name != "Samantha" {
			t.Errorf("name = %q", u.Name)
		}
	})

	t.Run("error discards changes", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := s.Update(func(u *models.User) error {
			u.Name = "Nope"
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Update err = %v", err)
		}
		u, _ := s.LoadUser()
		if u.Name != "Samantha" {
			t.Errorf("name = %q, want unchanged", u.Name)
		}
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Update(func(u *models.User) error {
					u.Folders = append(u.Folders, models.Folder{ID: strconv.Itoa(100 + i)})
					return nil
				})
				if err != nil {
					t.Errorf("Update: %v", err)
				}
			}(i)
		}
		wg.Wait()
		u, _ := s.LoadUser()
		if len(u.Folders) != 21 {
			t.Errorf("expected 21 folders, got %d", len(u.Folders))
		}
	})
}

func TestSelections(t *testing.T) {
	s := openTestStore(t)

	if f, err := s.SelectedFolder(); err != nil || f != "" {
		t.Fatalf("SelectedFolder on empty store = %q, %v", f, err)
	}
	if err := s.SetSelectedFolder("3"); err != nil {
		t.Fatalf("SetSelectedFolder: %v", err)
	}
	if f, _ := s.SelectedFolder(); f != "3" {
		t.Errorf("SelectedFolder = %q", f)
	}
	if err := s.SetSelectedFolder(""); err != nil {
		t.Fatalf("clear folder: %v", err)
	}
	if f, _ := s.SelectedFolder(); f != "" {
		t.Errorf("SelectedFolder after clear = %q", f)
	}

	day := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	if err := s.SetSelectedDate(day); err != nil {
		t.Fatalf("SetSelectedDate: %v", err)
	}
	if got, _ := s.SelectedDate(); !got.Equal(day) {
		t.Errorf("SelectedDate = %v, want %v", got, day)
	}

	if th, _ := s.Theme(); th != models.DefaultTheme {
		t.Errorf("default theme = %q", th)
	}
	if err := s.SetTheme("Ocean"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if th, _ := s.Theme(); th != models.ThemeOcean {
		t.Errorf("Theme = %q", th)
	}
}

func TestClearUser(t *testing.T) {
	s := openTestStore(t)
	_ = s.SaveUser(sampleUser())
	_ = s.SetSelectedFolder("1")
	_ = s.SetTheme(models.ThemeSepia)

	if err := s.ClearUser(); err != nil {
		t.Fatalf("ClearUser: %v", err)
	}
	if _, err := s.LoadUser(); !errors.Is(err, ErrNoUser) {
		t.Errorf("user still present: %v", err)
	}
	if th, _ := s.Theme(); th != models.ThemeSepia {
		t.Errorf("theme should survive sign out, got %q", th)
	}
}

func TestUpdateRaw(t *testing.T) {
	s := openTestStore(t)
	err := s.UpdateRaw(KeyOutbox, func(old []byte) ([]byte, error) {
		if old != nil {
			t.Errorf("expected nil for missing key, got %q", old)
		}
		return []byte(`[1]`), nil
	})
	if err != nil {
		t.Fatalf("UpdateRaw: %v", err)
	}
	raw, err := s.ReadRaw(KeyOutbox)
	if err != nil || string(raw) != `[1]` {
		t.Errorf("ReadRaw = %q, %v", raw, err)
	}
}

func TestUpdatesFromTwoHandlesAreNotLost(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal.db")
	a, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SaveUser(&models.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}

	const perHandle = 15
	var wg sync.WaitGroup
	for _, s := range []*Store{a, b} {
		for i := 0; i < perHandle; i++ {
			wg.Add(1)
			go func(s *Store, i int) {
				defer wg.Done()
				_, err := s.Update(func(u *models.User) error {
					u.Journal = append(u.Journal, models.JournalEntry{ID: models.ParseEntryID(i)})
					return nil
				})
				if err != nil {
					t.Errorf("Update: %v", err)
				}
			}(s, i)
		}
	}
	wg.Wait()

	// b must see a's writes, not a cached copy
	u, err := b.LoadUser()
	if err != nil {
		t.Fatal(err)
	}
	if got := len(u.Journal); got != 2*perHandle {
		t.Errorf("journal has %d entries, want %d", got, 2*perHandle)
	}
}

func TestStaleLockIsBroken(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	lockPath := filepath.Join(dir, lockName)
	if err := os.WriteFile(lockPath, []byte("12345\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-2 * lockStale)
	if err := os.Chtimes(lockPath, old, old); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveUser(&models.User{ID: "u1"}); err != nil {
		t.Fatalf("SaveUser with a stale lock: %v", err)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Errorf("lock file should be released, stat err = %v", err)
	}
}
