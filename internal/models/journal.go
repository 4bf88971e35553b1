package models

import (
	"fmt"
	"strings"
	"time"
)

// JournalEntry is one journal record inside User.Journal.
type JournalEntry struct {
	ID          EntryID   `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Content     string    `bson:"content" json:"content"`
	Date        string    `bson:"date" json:"date"` // RFC3339 for new writes; legacy records may hold a relative label
	Mood        Mood      `bson:"mood,omitempty" json:"mood,omitempty"`
	FolderID    string    `bson:"folderId,omitempty" json:"folderId,omitempty"`
	LastUpdated time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

// Folder groups entries. IDs are small integers rendered as strings.
type Folder struct {
	ID    string `bson:"id" json:"id"`
	Title string `bson:"title" json:"title"`
	Color string `bson:"color" json:"color"`
}

// FallbackFolderColor is used for entries whose folder no longer exists.
const FallbackFolderColor = "#9E9E9E"

// Mood is the optional mood tag of an entry.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodAngry    Mood = "angry"
	MoodRelaxed  Mood = "relaxed"
	MoodPeaceful Mood = "peaceful"
	MoodDefault  Mood = "default"
)

var moods = []Mood{MoodHappy, MoodSad, MoodAngry, MoodRelaxed, MoodPeaceful, MoodDefault}

// ParseMood accepts any casing. An empty string means no mood.
func ParseMood(s string) (Mood, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	for _, m := range moods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}
