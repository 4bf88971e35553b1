package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/AnshRaj112/journalify-backend/internal/client/journal"
	"github.com/AnshRaj112/journalify-backend/internal/models"
)

var moodColors = map[models.Mood]color.Attribute{
	models.MoodHappy:    color.FgYellow,
	models.MoodSad:      color.FgBlue,
	models.MoodAngry:    color.FgRed,
	models.MoodRelaxed:  color.FgGreen,
	models.MoodPeaceful: color.FgCyan,
}

func folderTitle(folders []models.Folder, id string) string {
	if id == "" {
		return ""
	}
	for _, f := range folders {
		if f.ID == id {
			return f.Title
		}
	}
	return "(missing folder " + id + ")"
}

func moodLabel(m models.Mood) string {
	if m == "" {
		return ""
	}
	if attr, ok := moodColors[m]; ok {
		return color.New(attr).Sprint(string(m))
	}
	return string(m)
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func printEntries(title string, entries []models.JournalEntry, folders []models.Folder, now time.Time) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)
	_, _ = t.Fprint(color.Output, title)
	_, _ = c.Fprintf(color.Output, " - %d\n", len(entries))

	if len(entries) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(color.Output, " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	id := color.New(color.FgHiYellow, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Date"), bold.Sprint("Title"), bold.Sprint("Mood"), bold.Sprint("Folder"), bold.Sprint("Preview"))
	for _, e := range entries {
		folder := folderTitle(folders, e.FolderID)
		if folder != "" {
			folder = colorFor(journal.FolderColor(folders, e.FolderID)).Sprint(folder)
		}
		tbl.AddRow(id.Sprint(e.ID), journal.DisplayLabel(e, now), e.Title, moodLabel(e.Mood), folder, preview(e.Content, 40))
	}
	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = fmt.Fprintln(color.Output, "")
}

func printEntry(e models.JournalEntry, folders []models.Folder, now time.Time) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	title := e.Title
	if title == "" {
		title = "(untitled)"
	}
	_, _ = bold.Fprintln(color.Output, title)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(faint.Sprint("id"), e.ID)
	tbl.AddRow(faint.Sprint("date"), journal.DisplayLabel(e, now))
	if e.Mood != "" {
		tbl.AddRow(faint.Sprint("mood"), moodLabel(e.Mood))
	}
	if e.FolderID != "" {
		tbl.AddRow(faint.Sprint("folder"), folderTitle(folders, e.FolderID))
	}
	tbl.AddRow(faint.Sprint("updated"), e.LastUpdated.Local().Format("Jan 2, 2006 15:04"))
	_, _ = fmt.Fprintln(color.Output, tbl)
	_, _ = fmt.Fprintln(color.Output, "")
	_, _ = fmt.Fprintln(color.Output, e.Content)
}

func printFolders(folders []models.Folder, counts map[string]int) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Folder"), bold.Sprint("Entries"))
	for _, f := range folders {
		tbl.AddRow(f.ID, colorFor(f.Color).Sprint(f.Title), counts[f.ID])
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(color.Output, tbl)
}

// colorFor picks the terminal color nearest to a #RRGGBB folder color.
func colorFor(hex string) *color.Color {
	var r, g, b int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.New(color.Reset)
	}
	switch {
	case r > 180 && g > 180 && b < 120:
		return color.New(color.FgYellow)
	case r >= g && r >= b && r > 128:
		return color.New(color.FgRed)
	case g >= r && g >= b && g > 128:
		if b > 100 {
			return color.New(color.FgCyan)
		}
		return color.New(color.FgGreen)
	case b >= r && b >= g && b > 128:
		if r > 100 {
			return color.New(color.FgMagenta)
		}
		return color.New(color.FgBlue)
	}
	return color.New(color.Faint)
}
