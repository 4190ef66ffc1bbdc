/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/hance08/leaf/internal/app"
	"github.com/hance08/leaf/internal/auth"
	"github.com/hance08/leaf/internal/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type loginFlags struct {
	User  string
	Token string
	URL   string
}

type loginRunner struct {
	app   *app.App
	flags *loginFlags
}

func NewLoginCmd(a *app.App) *cobra.Command {
	flags := &loginFlags{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to enable sync",
		Long: `Store the account and token this device syncs with.

The token comes from the operator of the remote (leaf token --user <id>). When
this machine has server.secret configured, a token is issued locally if none
is given.`,
		Example: `  leaf login --user alice --token eyJhbGciOi... --url https://leaf.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &loginRunner{
				app:   a,
				flags: flags,
			}
			return runner.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.User, "user", "u", "", "Account id")
	cmd.Flags().StringVar(&flags.Token, "token", "", "Bearer token issued by the remote")
	cmd.Flags().StringVar(&flags.URL, "url", "", "Remote URL, default is remote.url from the config")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func (r *loginRunner) Run() error {
	cfg := r.app.Config
	token := r.flags.Token

	if cfg.Server.Secret != "" {
		issuer, err := auth.NewTokenIssuer(cfg.Server.Secret)
		if err != nil {
			return err
		}
		if token == "" {
			if token, err = issuer.Issue(r.flags.User, cfg.Server.TokenTTL); err != nil {
				return err
			}
		} else {
			subject, err := issuer.Parse(token)
			if err != nil {
				return err
			}
			if subject != r.flags.User {
				return fmt.Errorf("token belongs to %q, not %q", subject, r.flags.User)
			}
		}
	}

	if token == "" && cfg.Remote.Kind == config.RemoteHTTP {
		return fmt.Errorf("a token is required to sign in to %s", cfg.Remote.URL)
	}

	if current, err := r.app.Sessions.Current(); err == nil && current.UserID != r.flags.User {
		if err := r.app.SignOut(); err != nil {
			return err
		}
		pterm.Info.Printf("Signed out %s\n", current.UserID)
	}

	err := r.app.Sessions.Login(auth.Session{
		UserID:    r.flags.User,
		Token:     token,
		RemoteURL: r.flags.URL,
		SignedIn:  time.Now(),
	})
	if err != nil {
		return err
	}

	pterm.Success.Printf("Signed in as %s\n", r.flags.User)
	return nil
}

type logoutRunner struct {
	app *app.App
}

func NewLogoutCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget pending conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &logoutRunner{app: a}
			return runner.Run()
		},
	}
}

func (r *logoutRunner) Run() error {
	if err := r.app.SignOut(); err != nil {
		return err
	}
	pterm.Success.Println("Signed out")
	return nil
}

type tokenFlags struct {
	User string
	TTL  time.Duration
}

type tokenRunner struct {
	app   *app.App
	flags *tokenFlags
}

func NewTokenCmd(a *app.App) *cobra.Command {
	flags := &tokenFlags{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a sync token (server operators)",
		Long:  `Issue a bearer token for a user of ` + "`leaf serve`" + `, signed with server.secret.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &tokenRunner{
				app:   a,
				flags: flags,
			}
			return runner.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.User, "user", "u", "", "Account id the token is for")
	cmd.Flags().DurationVar(&flags.TTL, "ttl", 0, "Token lifetime, default is server.token_ttl")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func (r *tokenRunner) Run() error {
	issuer, err := auth.NewTokenIssuer(r.app.Config.Server.Secret)
	if err != nil {
		return err
	}
	ttl := r.flags.TTL
	if ttl <= 0 {
		ttl = r.app.Config.Server.TokenTTL
	}
	token, err := issuer.Issue(r.flags.User, ttl)
	if err != nil {
		return err
	}
	pterm.Println(token)
	return nil
}
