// Package journal derives views over a user's journal entries. Every function
// is a pure transformation: callers persist results through the local store.
package journal

import (
	"log"
	"sort"
	"strings"
	"time"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

// FindByID looks up an entry by canonical id.
func FindByID(entries []models.JournalEntry, id models.EntryID) (models.JournalEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.JournalEntry{}, false
}

// FindOrEmpty returns a synthetic empty entry carrying id when nothing matches,
// which is what entry screens render for a missing record.
func FindOrEmpty(entries []models.JournalEntry, id models.EntryID) models.JournalEntry {
	if e, ok := FindByID(entries, id); ok {
		return e
	}
	return models.JournalEntry{ID: id}
}

// DisplayLabel is the date label shown for an entry: "Today", "Yesterday" or
// a formatted date. Legacy records that stored a label keep it.
func DisplayLabel(e models.JournalEntry, now time.Time) string {
	raw := strings.TrimSpace(e.Date)
	if raw == models.LabelToday || raw == models.LabelYesterday {
		return raw
	}
	loc := now.Location()
	t, err := models.ParseEntryDate(raw, loc)
	if err != nil {
		return raw
	}
	today := models.Midnight(now, loc)
	day := models.Midnight(t, loc)
	switch {
	case day.Equal(today):
		return models.LabelToday
	case day.Equal(today.AddDate(0, 0, -1)):
		return models.LabelYesterday
	}
	return t.In(loc).Format("Jan 2, 2006")
}

// FilterByDate keeps the entries written on the calendar day of selected.
// Entries whose date cannot be parsed are excluded.
func FilterByDate(entries []models.JournalEntry, selected, now time.Time) []models.JournalEntry {
	out := make([]models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if matchesDate(e, selected, now) {
			out = append(out, e)
		}
	}
	return out
}

func matchesDate(e models.JournalEntry, selected, now time.Time) bool {
	loc := now.Location()
	switch DisplayLabel(e, now) {
	case models.LabelToday:
		if models.SameDay(selected, now, loc) {
			return true
		}
	case models.LabelYesterday:
		return models.SameDay(selected, models.Midnight(now, loc).AddDate(0, 0, -1), loc)
	}

	t, err := models.ParseEntryDate(e.Date, loc)
	if err != nil {
		if raw := strings.TrimSpace(e.Date); raw != models.LabelToday {
			log.Printf("[FilterByDate] skipping entry %s: %v", e.ID, err)
		}
		return false
	}
	return models.SameDay(t, selected, loc)
}

// FilterByFolder keeps entries filed under folderID. An empty folderID means
// no filter and returns entries unchanged.
func FilterByFolder(entries []models.JournalEntry, folderID string) []models.JournalEntry {
	if folderID == "" {
		return entries
	}
	out := make([]models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if e.FolderID == folderID {
			out = append(out, e)
		}
	}
	return out
}

// AssignFolder files the entry under folderID. The input is returned as is when
// the entry does not exist.
func AssignFolder(entries []models.JournalEntry, id models.EntryID, folderID string) []models.JournalEntry {
	idx := indexOf(entries, id)
	if idx < 0 {
		return entries
	}
	out := make([]models.JournalEntry, len(entries))
	copy(out, entries)
	out[idx].FolderID = folderID
	return out
}

// DeleteByID removes the entry. The input is returned as is when absent.
func DeleteByID(entries []models.JournalEntry, id models.EntryID) []models.JournalEntry {
	idx := indexOf(entries, id)
	if idx < 0 {
		return entries
	}
	out := make([]models.JournalEntry, 0, len(entries)-1)
	out = append(out, entries[:idx]...)
	return append(out, entries[idx+1:]...)
}

// SortByDate returns a copy ordered newest first. Undated entries go last in
// their original order. Dates without an offset are read in time.Local.
func SortByDate(entries []models.JournalEntry) []models.JournalEntry {
	return SortByDateIn(entries, time.Local)
}

// SortByDateIn is SortByDate reading offset-less dates in loc.
func SortByDateIn(entries []models.JournalEntry, loc *time.Location) []models.JournalEntry {
	type keyed struct {
		e  models.JournalEntry
		t  time.Time
		ok bool
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		t, err := models.ParseEntryDate(e.Date, loc)
		ks[i] = keyed{e: e, t: t, ok: err == nil}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].ok != ks[j].ok {
			return ks[i].ok
		}
		return ks[i].t.After(ks[j].t)
	})
	out := make([]models.JournalEntry, len(ks))
	for i, k := range ks {
		out[i] = k.e
	}
	return out
}

// FolderColor resolves the color of folderID, tolerating dangling references.
func FolderColor(folders []models.Folder, folderID string) string {
	for _, f := range folders {
		if f.ID == folderID && f.Color != "" {
			return f.Color
		}
	}
	return models.FallbackFolderColor
}

func indexOf(entries []models.JournalEntry, id models.EntryID) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
