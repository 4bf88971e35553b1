package models

import (
	"testing"
	"time"
)

func TestParseEntryDate(t *testing.T) {
	pacific := time.FixedZone("PST", -8*60*60)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-15T02:00:00Z", time.Date(2024, 3, 15, 2, 0, 0, 0, time.UTC)},
		{"2024-03-15T02:00:00+05:30", time.Date(2024, 3, 15, 2, 0, 0, 0, time.FixedZone("", 5*60*60+30*60))},
		{"2024-03-15T02:00:00", time.Date(2024, 3, 15, 2, 0, 0, 0, pacific)},
		{"2024-03-15T02:00:00.250", time.Date(2024, 3, 15, 2, 0, 0, 250e6, pacific)},
		{"2024-03-15 02:00:00", time.Date(2024, 3, 15, 2, 0, 0, 0, pacific)},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, pacific)},
		{"Mar 15, 2024", time.Date(2024, 3, 15, 0, 0, 0, 0, pacific)},
	}
	for _, tt := range tests {
		got, err := ParseEntryDate(tt.in, pacific)
		if err != nil {
			t.Errorf("ParseEntryDate(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseEntryDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", LabelToday, "15/03/2024"} {
		if _, err := ParseEntryDate(bad, pacific); err == nil {
			t.Errorf("ParseEntryDate(%q) should fail", bad)
		}
	}
}
