package models

import (
	"time"
)

// User is the single record a client mirrors locally: profile, journal
// entries, folders and preferences all travel together.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"_id,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // argon2id hash, never sent to clients

	Journal         []JournalEntry `bson:"Journal" json:"Journal"`
	Folders         []Folder       `bson:"folders" json:"folders"`
	ThemePreference string         `bson:"themePreference,omitempty" json:"themePreference,omitempty"`
}

// Public returns a copy safe to hand to clients.
func (u User) Public() User {
	u.Password = ""
	if u.Journal == nil {
		u.Journal = []JournalEntry{}
	}
	if u.Folders == nil {
		u.Folders = []Folder{}
	}
	return u
}

// HasFolder reports whether id names one of the user's folders.
func (u *User) HasFolder(id string) bool {
	for _, f := range u.Folders {
		if f.ID == id {
			return true
		}
	}
	return false
}
