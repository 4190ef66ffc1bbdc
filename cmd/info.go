/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"path/filepath"

	"github.com/hance08/leaf/internal/app"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/spf13/cobra"
)

type infoRunner struct {
	app *app.App
}

func NewInfoCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, database path, and system details.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				app: a,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	cfg := r.app.Config

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	appDir := getAppDataDirOrUnknown()

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath = filepath.Join(appDir, "leaf.db")
	}
	logPath := cfg.Log.Path
	if logPath == "" {
		logPath = filepath.Join(appDir, "leaf.log")
	}

	dbExists := false
	if _, err := os.Stat(dbPath); err == nil {
		dbExists = true
	}

	base := cfg.Defaults.Currency
	if s, err := r.app.Service.Settings.Load(); err == nil {
		base = s.BaseCurrency
	}

	var signedIn string
	if sess, err := r.app.Sessions.Current(); err == nil {
		signedIn = sess.UserID
	}

	items := views.SystemInfoItem{
		ConfigPath:   configPath,
		DBPath:       dbPath,
		DBExists:     dbExists,
		BaseCurrency: base,
		AppDataDir:   appDir,
		LogPath:      logPath,
		RemoteKind:   cfg.Remote.Kind,
		SignedInAs:   signedIn,
	}

	if err := views.RenderSystemInfo(items); err != nil {
		return err
	}
	return nil
}

func getAppDataDirOrUnknown() string {
	dir, err := app.DataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
