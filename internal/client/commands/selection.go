package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func addSelect(topLevel *cobra.Command) {
	var date, folder string
	var clear bool
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Save the folder and date that list shows by default",
		Example: `
journal select --date today
journal select --folder 2
journal select --clear
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if clear {
				if err := a.state.SelectFolder(""); err != nil {
					return err
				}
				if err := a.state.SelectDate(time.Time{}); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("folder") {
				if err := a.state.SelectFolder(folder); err != nil {
					return signedInHint(err)
				}
			}
			if cmd.Flags().Changed("date") {
				day := time.Time{}
				if date != "all" && date != "" {
					if day, err = parseDay(date, time.Now()); err != nil {
						return err
					}
				}
				if err := a.state.SelectDate(day); err != nil {
					return err
				}
			}

			folderID, day, err := a.state.Selection()
			if err != nil {
				return err
			}
			faint := color.New(color.Faint)
			f, d := "all", "all"
			if folderID != "" {
				f = folderID
			}
			if !day.IsZero() {
				d = day.Format("2006-01-02")
			}
			_, _ = faint.Fprintf(color.Output, "folder: %s  date: %s\n", f, d)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "today, yesterday, YYYY-MM-DD or all.")
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "Folder id, empty for all.")
	cmd.Flags().BoolVar(&clear, "clear", false, "Forget both selections.")
	topLevel.AddCommand(cmd)
}

func addTheme(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "theme [key]",
		Short: "Show or change the theme preference",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				key, err := a.state.Theme()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(color.Output, key)
				return nil
			}
			key, err := a.state.SetTheme(args[0])
			if err != nil {
				return err
			}
			if key != strings.ToLower(strings.TrimSpace(args[0])) {
				_, _ = color.New(color.Faint).Fprintf(color.Output, "%q is not a known theme, using %s\n", args[0], key)
				return nil
			}
			_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Theme set to %s\n", key)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
