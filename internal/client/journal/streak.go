package journal

import (
	"time"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

// Streak counts consecutive calendar days with at least one entry, ending
// today or yesterday. Several entries on one day count once; a gap or an
// unparseable date ends the run.
func Streak(entries []models.JournalEntry, now time.Time) int {
	if len(entries) == 0 {
		return 0
	}
	loc := now.Location()
	sorted := SortByDateIn(entries, loc)

	first, err := models.ParseEntryDate(sorted[0].Date, loc)
	if err != nil {
		return 0
	}
	today := models.Midnight(now, loc)
	anchor := models.Midnight(first, loc)
	if !anchor.Equal(today) && !anchor.Equal(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	for _, e := range sorted[1:] {
		t, err := models.ParseEntryDate(e.Date, loc)
		if err != nil {
			break
		}
		day := models.Midnight(t, loc)
		if day.Equal(anchor) {
			continue
		}
		if !day.Equal(anchor.AddDate(0, 0, -1)) {
			break
		}
		streak++
		anchor = day
	}
	return streak
}
