package commands

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

type entryOptions struct {
	Content string
	Mood    string
	Folder  string
}

func addNew(topLevel *cobra.Command) {
	eo := &entryOptions{}
	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Write a new journal entry",
		Example: `
journal new "Morning pages" --content "Slept well." --mood relaxed
echo "long text" | journal new Notes --content -
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, err := models.ParseMood(eo.Mood)
			if err != nil {
				return err
			}
			content, err := readContent(cmd, eo.Content)
			if err != nil {
				return err
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			e, err := a.state.CreateEntry(cmd.Context(), strings.Join(args, " "), content, mood, eo.Folder)
			if err != nil {
				return signedInHint(err)
			}
			_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Created entry %s\n", e.ID)
			a.flush(cmd.Context())
			return nil
		},
	}
	cmd.Flags().StringVarP(&eo.Content, "content", "c", "", "Entry text, - reads stdin.")
	cmd.Flags().StringVarP(&eo.Mood, "mood", "m", "", "One of happy, sad, angry, relaxed, peaceful, default.")
	cmd.Flags().StringVarP(&eo.Folder, "folder", "f", "", "Folder id to file the entry under.")
	topLevel.AddCommand(cmd)
}

func addWrite(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "write <id> [content | -]",
		Short: "Replace the content of an entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(cmd, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			e, err := a.state.UpdateContent(cmd.Context(), models.ParseEntryID(args[0]), content)
			if err != nil {
				return signedInHint(err)
			}
			_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Saved entry %s\n", e.ID)
			a.flush(cmd.Context())
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			e, err := a.state.EntryOrEmpty(models.ParseEntryID(args[0]))
			if err != nil {
				return signedInHint(err)
			}
			folders, err := a.state.Folders()
			if err != nil {
				return err
			}
			printEntry(e, folders, time.Now())
			if e.Date == "" && e.LastUpdated.IsZero() {
				_, _ = color.New(color.Faint, color.Italic).Fprintf(color.Output, "no entry %s in this journal\n", e.ID)
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			id := models.ParseEntryID(args[0])
			if err := a.state.DeleteEntry(cmd.Context(), id); err != nil {
				return signedInHint(err)
			}
			_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Deleted entry %s\n", id)
			a.flush(cmd.Context())
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addFile(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "file <id> [folder-id]",
		Short: "File an entry under a folder, or unfile it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			folderID := ""
			if len(args) == 2 {
				folderID = args[1]
			}
			if err := a.state.AssignFolder(models.ParseEntryID(args[0]), folderID); err != nil {
				return signedInHint(err)
			}
			if folderID == "" {
				_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Unfiled entry %s\n", args[0])
			} else {
				_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Filed entry %s under folder %s\n", args[0], folderID)
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

// readContent returns value, or stdin when value is "-".
func readContent(cmd *cobra.Command, value string) (string, error) {
	if value != "-" {
		return value, nil
	}
	in := cmd.InOrStdin()
	if in == nil {
		in = os.Stdin
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}
