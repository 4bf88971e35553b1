package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/AnshRaj112/journalify-backend/internal/client/appstate"
	"github.com/AnshRaj112/journalify-backend/internal/client/localstore"
	"github.com/AnshRaj112/journalify-backend/internal/client/remote"
)

// app is everything a command needs, built from the config.
type app struct {
	cfg    *Config
	store  *localstore.Store
	client *remote.Client
	outbox *remote.Outbox
	state  *appstate.State
}

func loadApp() (*app, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	store, err := localstore.Open(cfg.Path)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		store:  store,
		client: remote.NewClient(cfg.Server, cfg.Timeout),
	}
	var syncer remote.Syncer
	if cfg.Sync == SyncDirect {
		syncer = remote.NewMirror(a.client)
	} else {
		a.outbox = remote.NewOutbox(store, a.client)
		syncer = a.outbox
	}
	a.state = appstate.New(store, syncer)
	return a, nil
}

// flush makes one attempt to push queued changes after a local write and
// reports what is still waiting.
func (a *app) flush(ctx context.Context) {
	if a.outbox == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout+time.Second)
	defer cancel()

	_, err := a.outbox.Drain(ctx)
	pending, _ := a.outbox.Pending()
	if len(pending) == 0 {
		return
	}
	faint := color.New(color.Faint)
	if err != nil && !errors.Is(err, remote.ErrBackingOff) {
		_, _ = faint.Fprintf(color.Output, "offline: %d change(s) queued (%v)\n", len(pending), err)
		return
	}
	_, _ = faint.Fprintf(color.Output, "%d change(s) queued for sync\n", len(pending))
}

func signedInHint(err error) error {
	if errors.Is(err, appstate.ErrNoUser) {
		return fmt.Errorf("%w: run `journal signin` first", err)
	}
	return err
}
