/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	currencycmd "github.com/hance08/leaf/cmd/currency"
	settingscmd "github.com/hance08/leaf/cmd/settings"
	"github.com/hance08/leaf/cmd/transaction"
	"github.com/hance08/leaf/internal/app"
	"github.com/hance08/leaf/internal/config"
	"github.com/hance08/leaf/internal/errhandler"
	"github.com/hance08/leaf/internal/ui/prompts"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

func Execute(migrations fs.FS) {
	os.Exit(run(migrations))
}

func run(migrations fs.FS) int {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	cfgFile = configFlag(os.Args[1:])
	if err := initConfig(); err != nil {
		pterm.Error.Println(err)
		return 1
	}

	if viper.GetString("defaults.currency") == "" {
		base, err := initWizard()
		if err != nil {
			return errhandler.HandleError(err)
		}
		cfg.Defaults.Currency = base
	}

	application, cleanup, err := app.NewApp(cfg, migrations)
	if err != nil {
		pterm.Error.Println(err)
		return 1
	}
	defer cleanup()

	// Seed settings on first run so every command sees a base currency.
	if _, err := application.Service.Settings.Load(); err != nil {
		return errhandler.HandleError(fmt.Errorf("failed to load settings: %w", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "leaf",
		Short: "leaf is a CLI based personal budget ledger",
		Long: `leaf is a CLI based personal budget ledger.

Transactions live in a local database and can be synchronized with a remote
replica you own. Conflicting edits are never overwritten silently: leaf shows
both sides and lets you choose.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")

	svc := application.Service

	rootCmd.AddCommand(transaction.NewTransactionCmd(svc))
	rootCmd.AddCommand(transaction.NewShowCmd(svc))
	rootCmd.AddCommand(transaction.NewEditCmd(svc))
	rootCmd.AddCommand(transaction.NewDeleteCmd(svc))
	rootCmd.AddCommand(settingscmd.NewSettingsCmd(svc))
	rootCmd.AddCommand(currencycmd.NewCurrencyCmd(application))

	rootCmd.AddCommand(NewAddCmd(application))
	rootCmd.AddCommand(NewListCmd(svc))
	rootCmd.AddCommand(NewSummaryCmd(svc))
	rootCmd.AddCommand(NewSyncCmd(application))
	rootCmd.AddCommand(NewStatusCmd(application))
	rootCmd.AddCommand(NewLoginCmd(application))
	rootCmd.AddCommand(NewLogoutCmd(application))
	rootCmd.AddCommand(NewTokenCmd(application))
	rootCmd.AddCommand(NewServeCmd(application, migrations))
	rootCmd.AddCommand(NewExportCmd(svc))
	rootCmd.AddCommand(NewImportCmd(svc))
	rootCmd.AddCommand(NewInfoCmd(application))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		application.Logger.Debug("command failed", "error", err)
		return errhandler.HandleError(err)
	}
	return 0
}

// configFlag finds --config before cobra parses flags, since the config has
// to be loaded before the command tree is built.
func configFlag(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" || arg == "-c":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-c="):
			return strings.TrimPrefix(arg, "-c=")
		}
	}
	return ""
}

func initConfig() error {
	if cfgFile != "" {
		path, err := expandPath(cfgFile)
		if err != nil {
			return err
		}
		viper.SetConfigFile(path)
	} else {
		appDir, err := app.DataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if err := createDefaultConfig(); err != nil {
			return fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	viper.SetEnvPrefix("LEAF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override
	bindEnv()

	if err := viper.ReadInConfig(); err != nil {

		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	cfg = config.NewDefault()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}

	cfg.ConfigPath = viper.ConfigFileUsed()

	var err error
	if cfg.Database.Path, err = expandPath(cfg.Database.Path); err != nil {
		return err
	}
	if cfg.Log.Path, err = expandPath(cfg.Log.Path); err != nil {
		return err
	}

	return nil
}

// bindEnv registers every config key so Unmarshal sees environment
// overrides for keys missing from the file.
func bindEnv() {
	for _, key := range []string{
		"database.path",
		"defaults.currency", "defaults.period",
		"remote.kind", "remote.url", "remote.dsn", "remote.timeout",
		"rates.url", "rates.max_age", "rates.timeout",
		"log.path", "log.level", "log.max_size_mb", "log.max_backups", "log.max_age_days",
		"server.addr", "server.secret", "server.token_ttl", "server.store", "server.dsn",
	} {
		_ = viper.BindEnv(key)
	}
}

func initWizard() (string, error) {
	currentDefault := "USD"

	currency, err := prompts.PromptInitCurrency(currentDefault)
	if err != nil {
		return "", err
	}

	viper.Set("defaults.currency", currency)

	if err := viper.WriteConfig(); err != nil {
		return "", fmt.Errorf("failed to save config to file: %w", err)
	}

	pterm.Success.Printf("Configuration saved. Base currency set to: %s\n", currency)

	return currency, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}

func createDefaultConfig() error {
	appDir, err := app.DataDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
