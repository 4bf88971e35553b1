package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AnshRaj112/journalify-backend/internal/client/remote"
	"github.com/AnshRaj112/journalify-backend/internal/models"
)

type syncOptions struct {
	Watch    bool
	Interval time.Duration
}

func addSync(topLevel *cobra.Command) {
	so := &syncOptions{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push queued changes, then pull the server copy",
		Long: `sync sends every queued change in order. When nothing is left in the
queue the local journal is replaced with the server's copy. --watch keeps
pushing until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			u, err := a.state.User()
			if err != nil {
				return signedInHint(err)
			}

			if so.Watch {
				if a.outbox == nil {
					return errors.New("--watch needs sync mode outbox")
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				_, _ = color.New(color.Faint).Fprintf(color.Output, "watching outbox every %s, ctrl-c to stop\n", so.Interval)
				if err := a.outbox.Run(ctx, so.Interval); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}

			if a.outbox != nil {
				n, err := a.outbox.Drain(cmd.Context())
				if n > 0 {
					_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Pushed %d change(s)\n", n)
				}
				if err != nil {
					pending, _ := a.outbox.Pending()
					if errors.Is(err, remote.ErrBackingOff) {
						return fmt.Errorf("%d change(s) waiting to retry, next attempt at %s",
							len(pending), pending[0].NextAttempt.Local().Format("15:04:05"))
					}
					return fmt.Errorf("%d change(s) still queued: %w", len(pending), err)
				}
			}

			fresh, err := a.client.FetchUser(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			if a.outbox == nil {
				// direct mode queues nothing: push what failed to mirror first
				if fresh, err = pushUnsynced(cmd.Context(), a, fresh); err != nil {
					return err
				}
			}
			if err := a.state.Refresh(fresh); err != nil {
				return err
			}
			_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Up to date (%d entries)\n", len(fresh.Journal))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&so.Watch, "watch", "w", false, "Keep pushing queued changes.")
	cmd.Flags().DurationVar(&so.Interval, "interval", 5*time.Second, "Time between attempts with --watch.")
	topLevel.AddCommand(cmd)
}

// pushUnsynced sends local entries the server lacks and content edited here
// after the server's copy, then returns the server record to pull.
func pushUnsynced(ctx context.Context, a *app, server *models.User) (*models.User, error) {
	missing, newer, err := a.state.Unsynced(server)
	if err != nil {
		return nil, err
	}
	if len(missing)+len(newer) == 0 {
		return server, nil
	}
	for _, e := range missing {
		key := fmt.Sprintf("%s:%d", e.ID, e.LastUpdated.UnixMilli())
		if _, err := a.client.AddJournal(ctx, server.ID, e, key); err != nil {
			return nil, fmt.Errorf("push entry %s: %w", e.ID, err)
		}
	}
	for _, e := range newer {
		lastUpdated := e.LastUpdated
		err := a.client.SaveJournalContent(ctx, server.ID, e.ID, e.Content, &lastUpdated)
		if err != nil && !errors.Is(err, remote.ErrConflict) && !errors.Is(err, remote.ErrNotFound) {
			return nil, fmt.Errorf("push entry %s: %w", e.ID, err)
		}
	}
	_, _ = color.New(color.FgGreen).Fprintf(color.Output, "Pushed %d change(s)\n", len(missing)+len(newer))
	return a.client.FetchUser(ctx, server.ID)
}
