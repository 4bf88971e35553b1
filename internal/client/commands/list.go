package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AnshRaj112/journalify-backend/internal/client/journal"
	"github.com/AnshRaj112/journalify-backend/internal/models"
)

type listOptions struct {
	Date   string
	Folder string
}

func addList(topLevel *cobra.Command) {
	lo := &listOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List journal entries, newest first",
		Long: `Without flags, list applies the folder and date saved by "journal select".
--date all and --folder "" ignore the saved selection.`,
		Example: `
journal list
journal list --date yesterday
journal list --date 2024-03-01 --folder 2
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			folders, err := a.state.Folders()
			if err != nil {
				return signedInHint(err)
			}
			now := time.Now()

			dateSet := cmd.Flags().Changed("date")
			folderSet := cmd.Flags().Changed("folder")
			if !dateSet && !folderSet {
				entries, err := a.state.VisibleEntries()
				if err != nil {
					return err
				}
				printEntries(selectionTitle(a, folders), entries, folders, now)
				return nil
			}

			entries, err := a.state.Entries()
			if err != nil {
				return err
			}
			title := "Entries"
			if folderSet && lo.Folder != "" {
				if !hasFolder(folders, lo.Folder) {
					return fmt.Errorf("no folder %q", lo.Folder)
				}
				entries = journal.FilterByFolder(entries, lo.Folder)
				title = folderTitle(folders, lo.Folder)
			}
			if dateSet && !strings.EqualFold(lo.Date, "all") {
				day, err := parseDay(lo.Date, now)
				if err != nil {
					return err
				}
				entries = journal.FilterByDate(entries, day, now)
				title += " on " + day.Format("Jan 2, 2006")
			}
			printEntries(title, journal.SortByDate(entries), folders, now)
			return nil
		},
	}
	cmd.Flags().StringVarP(&lo.Date, "date", "d", "", "today, yesterday, YYYY-MM-DD or all.")
	cmd.Flags().StringVarP(&lo.Folder, "folder", "f", "", "Folder id.")
	topLevel.AddCommand(cmd)
}

func selectionTitle(a *app, folders []models.Folder) string {
	folderID, day, err := a.state.Selection()
	if err != nil {
		return "Entries"
	}
	title := "Entries"
	if folderID != "" {
		title = folderTitle(folders, folderID)
	}
	if !day.IsZero() {
		title += " on " + day.Format("Jan 2, 2006")
	}
	return title
}

func hasFolder(folders []models.Folder, id string) bool {
	for _, f := range folders {
		if f.ID == id {
			return true
		}
	}
	return false
}

func addStreak(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show how many days in a row you have written",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			n, err := a.state.Streak()
			if err != nil {
				return signedInHint(err)
			}
			switch n {
			case 0:
				_, _ = fmt.Fprintln(color.Output, "No streak yet. Write something today.")
			case 1:
				_, _ = color.New(color.FgYellow).Fprintln(color.Output, "🔥 1 day")
			default:
				_, _ = color.New(color.FgYellow).Fprintf(color.Output, "🔥 %d days\n", n)
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
