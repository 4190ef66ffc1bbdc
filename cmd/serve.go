/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/hance08/leaf/internal/app"
	"github.com/hance08/leaf/internal/auth"
	"github.com/hance08/leaf/internal/config"
	"github.com/hance08/leaf/internal/remote"
	"github.com/hance08/leaf/internal/server"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	Addr  string
	Store string
	DSN   string
}

type serveRunner struct {
	app        *app.App
	flags      *serveFlags
	migrations fs.FS
}

func NewServeCmd(a *app.App, migrations fs.FS) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a remote replica other devices sync with",
		Long: `Serve the sync API over HTTP. Every request needs a bearer token issued
with server.secret, and a token only grants access to its own user's data.`,
		Example: `  # In-memory replica for trying things out
  leaf serve --store memory

  # Durable replica
  leaf serve --store postgres --dsn postgres://leaf@localhost/leaf?sslmode=disable`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &serveRunner{
				app:        a,
				flags:      flags,
				migrations: migrations,
			}
			return runner.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", "", "Listen address, default is server.addr")
	cmd.Flags().StringVar(&flags.Store, "store", "", "Replica storage: memory or postgres, default is server.store")
	cmd.Flags().StringVar(&flags.DSN, "dsn", "", "Postgres connection string, default is server.dsn")

	return cmd
}

func (r *serveRunner) Run(ctx context.Context) error {
	sc := r.app.Config.Server
	addr := firstNonEmpty(r.flags.Addr, sc.Addr)
	kind := firstNonEmpty(r.flags.Store, sc.Store)
	dsn := firstNonEmpty(r.flags.DSN, sc.DSN)

	tokens, err := auth.NewTokenIssuer(sc.Secret)
	if err != nil {
		return fmt.Errorf("%w, set server.secret or LEAF_SERVER_SECRET", err)
	}

	var rs remote.Store
	switch kind {
	case config.RemoteMemory:
		rs = remote.NewMemory()
		pterm.Warning.Println("Using in-memory storage, data is lost when the server stops")
	case config.RemotePostgres:
		pg, err := remote.NewPostgres(ctx, dsn, r.migrations)
		if err != nil {
			return err
		}
		defer pg.Close()
		rs = pg
	default:
		return fmt.Errorf("unknown server store %q", kind)
	}

	logger := r.app.Logger
	srv := server.New(rs, tokens, logger.With("component", "server"))

	pterm.Info.Printf("Listening on %s (Ctrl+C to stop)\n", addr)
	if err := srv.ListenAndServe(ctx, addr, logger.Writer()); err != nil {
		return err
	}
	pterm.Success.Println("Server stopped")
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
