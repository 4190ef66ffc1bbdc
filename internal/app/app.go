package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hance08/leaf/internal/auth"
	"github.com/hance08/leaf/internal/config"
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/logging"
	"github.com/hance08/leaf/internal/rates"
	"github.com/hance08/leaf/internal/remote"
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/store"
	"github.com/hance08/leaf/internal/syncer"
)

var ErrNoRemote = errors.New("no remote replica configured, set remote.kind in the config file")

type App struct {
	Config   *config.Config
	Service  *service.Service
	Store    store.Repository
	Rates    *rates.Service
	Currency *currency.Manager
	Sessions *auth.Sessions
	Logger   *logging.Logger
	Gate     *syncer.Gate

	migrationFS fs.FS

	mu      sync.Mutex
	engine  *syncer.Engine
	closers []io.Closer
}

// NewApp initialize config, logging, database and core logic, then return App entity
func NewApp(cfg *config.Config, migrationFS fs.FS) (*App, func(), error) {
	appDir, err := DataDir()
	if err != nil {
		return nil, nil, err
	}

	logCfg := cfg.Log
	if logCfg.Path == "" {
		logCfg.Path = filepath.Join(appDir, "leaf.log")
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	dbPathRaw := cfg.Database.Path
	if dbPathRaw == "" {
		dbPathRaw = filepath.Join(appDir, "leaf.db")
	}

	dbStore, err := store.NewStore(dbPathRaw, migrationFS)
	if err != nil {
		logger.Close()
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gate := &syncer.Gate{}
	rateSvc := rates.NewService(
		dbStore,
		rates.NewFrankfurter(cfg.Rates.URL, cfg.Rates.Timeout),
		cfg.Rates.MaxAge,
		logger.With("component", "rates"),
	)
	manager := currency.NewManager(dbStore, rateSvc, gate, logger.With("component", "currency"))

	svc := service.NewService(dbStore, manager, service.Config{
		DefaultCurrency: cfg.Defaults.Currency,
		DefaultPeriod:   cfg.Defaults.Period,
	})

	a := &App{
		Config:      cfg,
		Service:     svc,
		Store:       dbStore,
		Rates:       rateSvc,
		Currency:    manager,
		Sessions:    auth.NewSessions(filepath.Join(appDir, "session.yaml")),
		Logger:      logger,
		Gate:        gate,
		migrationFS: migrationFS,
	}

	cleanup := func() {
		a.mu.Lock()
		for _, c := range a.closers {
			if err := c.Close(); err != nil {
				logger.Warn("failed to close remote", "error", err)
			}
		}
		a.mu.Unlock()
		if err := dbStore.Close(); err != nil {
			fmt.Printf("Error closing DB: %v\n", err)
		}
		logger.Close()
	}

	return a, cleanup, nil
}

// Engine returns the process-wide sync engine, connecting to the configured
// remote on first use.
func (a *App) Engine(ctx context.Context) (*syncer.Engine, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.engine != nil {
		return a.engine, nil
	}

	rs, err := a.openRemote(ctx)
	if err != nil {
		return nil, err
	}
	a.engine = syncer.NewEngine(a.Store, rs, a.Gate, a.Logger.With("component", "sync"))
	return a.engine, nil
}

func (a *App) openRemote(ctx context.Context) (remote.Store, error) {
	rc := a.Config.Remote
	switch rc.Kind {
	case config.RemoteHTTP:
		sess, err := a.Sessions.Current()
		if err != nil {
			return nil, err
		}
		url := sess.RemoteURL
		if url == "" {
			url = rc.URL
		}
		if url == "" {
			return nil, fmt.Errorf("remote.url is not set")
		}
		return remote.NewClient(url, sess.Token, sess.UserID, rc.Timeout), nil
	case config.RemotePostgres:
		pg, err := remote.NewPostgres(ctx, rc.DSN, a.migrationFS)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg)
		return pg, nil
	case config.RemoteMemory:
		return remote.NewMemory(), nil
	case config.RemoteNone, "":
		return nil, ErrNoRemote
	default:
		return nil, fmt.Errorf("unknown remote kind %q", rc.Kind)
	}
}

// UserID returns the signed-in user, or syncer.ErrAuthRequired.
func (a *App) UserID() (string, error) {
	sess, err := a.Sessions.Current()
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return "", fmt.Errorf("%w: %v", syncer.ErrAuthRequired, err)
		}
		return "", err
	}
	return sess.UserID, nil
}

// SignOut drops pending conflicts, cancels any attempt still running for the
// user and forgets the session.
func (a *App) SignOut() error {
	sess, err := a.Sessions.Current()
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			return nil
		}
		return err
	}

	a.mu.Lock()
	engine := a.engine
	a.mu.Unlock()
	if engine != nil {
		engine.Discard(sess.UserID)
	}

	a.Logger.Info("signed out", "user", sess.UserID)
	return a.Sessions.Logout()
}

// DataDir is where the database, log and session files live by default.
func DataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".leaf"), nil
	}

	return filepath.Join(configDir, "leaf"), nil
}
