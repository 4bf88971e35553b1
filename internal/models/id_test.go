package models

import (
	"encoding/json"
	"testing"
)

func TestParseEntryID(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want EntryID
	}{
		{"string", "1700000000000", "1700000000000"},
		{"padded string", " 42 ", "42"},
		{"int", 1700000000000, "1700000000000"},
		{"int64", int64(7), "7"},
		{"float", float64(1700000000000), "1700000000000"},
		{"fractional float", 1.5, "1.5"},
		{"json number", json.Number("1700000000000"), "1700000000000"},
		{"entry id", EntryID("abc"), "abc"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseEntryID(tt.in); got != tt.want {
				t.Errorf("ParseEntryID(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEntryIDDecodesNumbersAndStrings(t *testing.T) {
	var entries []JournalEntry
	data := `[{"id":1700000000000,"title":"a"},{"id":"1700000000001","title":"b"},{"id":null,"title":"c"}]`
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []EntryID{"1700000000000", "1700000000001", ""}
	for i, e := range entries {
		if e.ID != want[i] {
			t.Errorf("entry %d id = %q, want %q", i, e.ID, want[i])
		}
	}

	out, err := json.Marshal(entries[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]interface{}
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if _, ok := back["id"].(string); !ok {
		t.Errorf("id should be written as a string, got %T", back["id"])
	}
}

func TestParseMood(t *testing.T) {
	if m, err := ParseMood("Happy"); err != nil || m != MoodHappy {
		t.Errorf("ParseMood(Happy) = %q, %v", m, err)
	}
	if m, err := ParseMood(""); err != nil || m != "" {
		t.Errorf("ParseMood(\"\") = %q, %v", m, err)
	}
	if _, err := ParseMood("grumpy"); err == nil {
		t.Error("expected error for unknown mood")
	}
}

func TestNormalizeTheme(t *testing.T) {
	if got := NormalizeTheme(" Dark "); got != ThemeDark {
		t.Errorf("NormalizeTheme(Dark) = %q", got)
	}
	if got := NormalizeTheme("neon"); got != DefaultTheme {
		t.Errorf("NormalizeTheme(neon) = %q", got)
	}
}
