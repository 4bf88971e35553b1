package commands

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func addFolder(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFolders()
		},
	}

	var colorHex string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a folder",
		Args:  cobra.MinimumNArgs(1),
		Example: `
journal folder add Travel --color "#2196F3"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			f, err := a.state.AddFolder(strings.Join(args, " "), colorHex)
			if err != nil {
				return signedInHint(err)
			}
			_, _ = colorFor(f.Color).Fprintf(color.Output, "Created folder %s (%s)\n", f.Title, f.ID)
			return nil
		},
	}
	add.Flags().StringVar(&colorHex, "color", "", "#RRGGBB, picked from a palette when empty.")

	list := &cobra.Command{
		Use:   "list",
		Short: "List folders with entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFolders()
		},
	}

	cmd.AddCommand(add, list)
	topLevel.AddCommand(cmd)
}

func listFolders() error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	folders, err := a.state.Folders()
	if err != nil {
		return signedInHint(err)
	}
	entries, err := a.state.Entries()
	if err != nil {
		return err
	}
	counts := make(map[string]int, len(folders))
	for _, e := range entries {
		if e.FolderID != "" {
			counts[e.FolderID]++
		}
	}
	printFolders(folders, counts)
	return nil
}
