package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/journalify-backend/internal/client/localstore"
	"github.com/AnshRaj112/journalify-backend/internal/handlers"
	"github.com/AnshRaj112/journalify-backend/internal/routes"
	"github.com/AnshRaj112/journalify-backend/internal/services"
)

func TestParseDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 20, 30, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"today", "2024-03-15", false},
		{"Yesterday", "2024-03-14", false},
		{"2024-02-29", "2024-02-29", false},
		{" 2023-12-31 ", "2023-12-31", false},
		{"15/03/2024", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := parseDay(tt.in, now)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseDay(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDay(%q): %v", tt.in, err)
			continue
		}
		if s := got.Format("2006-01-02"); s != tt.want {
			t.Errorf("parseDay(%q) = %s, want %s", tt.in, s, tt.want)
		}
	}
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("JOURNALIFY_CONFIG_PATH", dir)
	path := filepath.Join(dir, "journal.db")
	t.Setenv("JOURNALIFY_PATH", path)
	return path
}

func TestLoadConfigFromEnv(t *testing.T) {
	path := isolate(t)
	t.Setenv("JOURNALIFY_SERVER", "http://example.test:9000")
	t.Setenv("JOURNALIFY_SYNC", "Direct")
	t.Setenv("JOURNALIFY_TIMEOUT", "3s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Server != "http://example.test:9000" {
		t.Errorf("Server = %q", cfg.Server)
	}
	if cfg.Sync != SyncDirect {
		t.Errorf("Sync = %q, want %q", cfg.Sync, SyncDirect)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}

func TestLoadConfigRejectsUnknownSyncMode(t *testing.T) {
	isolate(t)
	t.Setenv("JOURNALIFY_SYNC", "carrier-pigeon")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for an unknown sync mode")
	}
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := New()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestCommandsAgainstServer(t *testing.T) {
	store := services.NewMemoryUserStore()
	h := handlers.NewHandler(store, services.NewMemoryClaimer(time.Hour), nil, nil)
	r := chi.NewRouter()
	routes.SetupRoutes(r, h)
	srv := httptest.NewServer(r)
	defer srv.Close()

	path := isolate(t)
	t.Setenv("JOURNALIFY_SERVER", srv.URL)
	t.Setenv("JOURNALIFY_SYNC", SyncOutbox)

	if err := run(t, "list"); err == nil {
		t.Fatal("list before signin should fail")
	}
	if err := run(t, "signup", "--name", "Ada", "--email", "ada@example.com", "--password", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := run(t, "new", "Day", "one", "--content", "first", "--mood", "happy"); err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := run(t, "new", "--mood", "grumpy"); err == nil {
		t.Fatal("unknown mood should fail")
	}

	ctx := context.Background()
	remoteUser, err := store.FindUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if len(remoteUser.Journal) != 1 || remoteUser.Journal[0].Title != "Day one" {
		t.Fatalf("server journal = %+v", remoteUser.Journal)
	}
	id := remoteUser.Journal[0].ID.String()

	if err := run(t, "write", id, "Hello", "again"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := run(t, "folder", "add", "Travel", "--color", "#2196F3"); err != nil {
		t.Fatalf("folder add: %v", err)
	}
	if err := run(t, "file", id, "1"); err != nil {
		t.Fatalf("file: %v", err)
	}
	if err := run(t, "file", id, "42"); err == nil {
		t.Fatal("filing under a missing folder should fail")
	}
	for _, args := range [][]string{
		{"list"},
		{"list", "--date", "today"},
		{"list", "--folder", "1"},
		{"show", id},
		{"show", "404"},
		{"folder", "list"},
		{"streak"},
		{"select", "--date", "today", "--folder", "1"},
		{"theme", "dark"},
		{"theme"},
	} {
		if err := run(t, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	remoteUser, err = store.FindUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if got := remoteUser.Journal[0].Content; got != "Hello again" {
		t.Fatalf("server content = %q, want %q", got, "Hello again")
	}

	if err := run(t, "sync"); err != nil {
		t.Fatalf("sync: %v", err)
	}

	local, err := localstore.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	u, err := local.LoadUser()
	if err != nil {
		t.Fatalf("LoadUser: %v", err)
	}
	if len(u.Journal) != 1 || u.Journal[0].Content != "Hello again" {
		t.Fatalf("local journal after sync = %+v", u.Journal)
	}
	if u.Journal[0].FolderID != "1" || len(u.Folders) != 1 {
		t.Errorf("sync lost local folders: %+v %+v", u.Folders, u.Journal[0])
	}
	if theme, _ := local.Theme(); theme != "dark" {
		t.Errorf("theme = %q, want dark", theme)
	}

	if err := run(t, "delete", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	remoteUser, _ = store.FindUserByEmail(ctx, "ada@example.com")
	if len(remoteUser.Journal) != 0 {
		t.Fatalf("server journal after delete = %+v", remoteUser.Journal)
	}
	if err := run(t, "signout"); err != nil {
		t.Fatalf("signout: %v", err)
	}
}

func TestDirectSyncPushesFailedMirrorWrites(t *testing.T) {
	store := services.NewMemoryUserStore()
	h := handlers.NewHandler(store, services.NewMemoryClaimer(time.Hour), nil, nil)
	r := chi.NewRouter()
	routes.SetupRoutes(r, h)

	var down atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if down.Load() {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		r.ServeHTTP(w, req)
	}))
	defer srv.Close()

	path := isolate(t)
	t.Setenv("JOURNALIFY_SERVER", srv.URL)
	t.Setenv("JOURNALIFY_SYNC", SyncDirect)

	if err := run(t, "signup", "--email", "ada@example.com", "--password", "pw"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := run(t, "new", "Synced", "--content", "v1"); err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	remoteUser, err := store.FindUserByEmail(ctx, "ada@example.com")
	if err != nil || len(remoteUser.Journal) != 1 {
		t.Fatalf("server journal = %+v, %v", remoteUser, err)
	}
	synced := remoteUser.Journal[0].ID.String()

	down.Store(true)
	if err := run(t, "write", synced, "v2"); err != nil {
		t.Fatalf("write while offline: %v", err)
	}
	if err := run(t, "new", "Offline", "--content", "written offline"); err != nil {
		t.Fatalf("new while offline: %v", err)
	}
	down.Store(false)

	if err := run(t, "sync"); err != nil {
		t.Fatalf("sync: %v", err)
	}

	local, err := localstore.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	u, err := local.LoadUser()
	if err != nil {
		t.Fatal(err)
	}
	if len(u.Journal) != 2 {
		t.Fatalf("local journal after sync = %+v", u.Journal)
	}

	remoteUser, _ = store.FindUserByEmail(ctx, "ada@example.com")
	if len(remoteUser.Journal) != 2 {
		t.Fatalf("server journal after sync = %+v", remoteUser.Journal)
	}
	for _, e := range remoteUser.Journal {
		if e.ID.String() == synced && e.Content != "v2" {
			t.Errorf("server content = %q, want v2", e.Content)
		}
	}
}
