// Package commands is the journal command line: cobra commands over the
// client state container.
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "journal",
		Short:         "A synced personal journal on the command line.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addSignup(topLevel)
	addSignin(topLevel)
	addSignout(topLevel)
	addNew(topLevel)
	addWrite(topLevel)
	addShow(topLevel)
	addList(topLevel)
	addDelete(topLevel)
	addFile(topLevel)
	addFolder(topLevel)
	addStreak(topLevel)
	addSelect(topLevel)
	addTheme(topLevel)
	addSync(topLevel)
}

// parseDay understands "today", "yesterday" and YYYY-MM-DD in now's zone.
func parseDay(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: want today, yesterday or YYYY-MM-DD", s)
	}
	return t, nil
}
