package models

import (
	"fmt"
	"strings"
	"time"
)

// Relative labels that legacy records stored in JournalEntry.Date. New writes
// store an absolute timestamp and the label is derived at render time.
const (
	LabelToday     = "Today"
	LabelYesterday = "Yesterday"
)

// zonedLayouts carry their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// localLayouts have no offset and are read as wall time in the caller's
// location, the way the mobile client wrote them.
var localLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
}

// ParseEntryDate parses the absolute forms an entry date has been written in.
// Forms without an offset are taken as wall time in loc (time.Local when nil).
// Relative labels are not dates and return an error.
func ParseEntryDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// FormatEntryDate is the representation written for new entries.
func FormatEntryDate(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// Midnight truncates t to the start of its calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay compares calendar days in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return Midnight(a, loc).Equal(Midnight(b, loc))
}
