package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hance08/leaf/internal/auth"
	"github.com/hance08/leaf/internal/config"
	"github.com/hance08/leaf/internal/syncer"
)

func newTestApp(t *testing.T, kind string) *App {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	cfg := config.NewDefault()
	cfg.Database.Path = filepath.Join(dir, "leaf.db")
	cfg.Log.Path = filepath.Join(dir, "leaf.log")
	cfg.Remote.Kind = kind

	a, cleanup, err := NewApp(cfg, os.DirFS(filepath.Join("..", "..")))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(cleanup)
	return a
}

func TestEngineRequiresRemote(t *testing.T) {
	a := newTestApp(t, config.RemoteNone)
	if _, err := a.Engine(context.Background()); !errors.Is(err, ErrNoRemote) {
		t.Fatalf("Engine: got %v, want ErrNoRemote", err)
	}
}

func TestUserIDRequiresSession(t *testing.T) {
	a := newTestApp(t, config.RemoteMemory)
	if _, err := a.UserID(); !errors.Is(err, syncer.ErrAuthRequired) {
		t.Fatalf("UserID: got %v, want ErrAuthRequired", err)
	}
}

func TestSyncWithMemoryRemote(t *testing.T) {
	a := newTestApp(t, config.RemoteMemory)
	ctx := context.Background()

	if err := a.Sessions.Login(auth.Session{UserID: "alice"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := a.Service.Settings.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	engine, err := a.Engine(ctx)
	if err != nil {
		t.Fatalf("Engine: %v", err)
	}
	again, _ := a.Engine(ctx)
	if again != engine {
		t.Error("Engine should be reused within a process")
	}

	res, err := engine.Synchronize(ctx, "alice")
	if err != nil {
		t.Fatalf("Synchronize: %v", err)
	}
	if !res.PushedSettings || res.HasConflicts() {
		t.Errorf("unexpected first sync result: %+v", res)
	}

	wm, err := a.Store.GetWatermark("alice")
	if err != nil || wm != res.Watermark {
		t.Errorf("watermark = %d, %v; want %d", wm, err, res.Watermark)
	}
}

func TestSignOut(t *testing.T) {
	a := newTestApp(t, config.RemoteMemory)

	if err := a.SignOut(); err != nil {
		t.Fatalf("SignOut without session: %v", err)
	}

	if err := a.Sessions.Login(auth.Session{UserID: "bob"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := a.Engine(context.Background()); err != nil {
		t.Fatalf("Engine: %v", err)
	}
	if err := a.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := a.Sessions.Current(); !errors.Is(err, auth.ErrNoSession) {
		t.Errorf("session still present: %v", err)
	}
}
