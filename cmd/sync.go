/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hance08/leaf/internal/app"
	"github.com/hance08/leaf/internal/auth"
	"github.com/hance08/leaf/internal/config"
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/syncer"
	"github.com/hance08/leaf/internal/ui/prompts"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type syncFlags struct {
	Choose         []string
	Settings       string
	NonInteractive bool
}

type syncRunner struct {
	app   *app.App
	flags *syncFlags
}

func NewSyncCmd(a *app.App) *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize with your remote replica",
		Long: `Pull changes from the remote replica and push local changes to it.

When a record was changed on both sides since the last sync, nothing is pushed
and you choose which side to keep. Choices can be given up front with --choose
and --settings; conflicts without a choice keep this device's version.`,
		Example: `  # Sync and choose interactively when there are conflicts
  leaf sync

  # Decide ahead of time
  leaf sync --choose 3f2a9c1e=remote --settings local

  # Scripts: never prompt, leave conflicts for later
  leaf sync --non-interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &syncRunner{
				app:   a,
				flags: flags,
			}
			return runner.Run(cmd.Context())
		},
	}

	cmd.Flags().StringArrayVar(&flags.Choose, "choose", nil, "Conflict choice as <id>=local|remote, repeatable")
	cmd.Flags().StringVar(&flags.Settings, "settings", "", "Settings conflict choice: local or remote")
	cmd.Flags().BoolVar(&flags.NonInteractive, "non-interactive", false, "Never prompt for conflict choices")

	return cmd
}

func (r *syncRunner) Run(ctx context.Context) error {
	choices, err := parseChoices(r.flags.Choose)
	if err != nil {
		return err
	}
	settingsChoice, err := syncer.ParseChoice(r.flags.Settings)
	if err != nil {
		return err
	}

	userID, err := r.app.UserID()
	if err != nil {
		return err
	}
	engine, err := r.app.Engine(ctx)
	if err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start("Synchronizing...")
	res, err := engine.Synchronize(ctx, userID)
	if err != nil {
		spinner.Fail("Sync failed")
		if errors.Is(err, syncer.ErrSessionClosed) {
			pterm.Warning.Println("Sync cancelled, nothing was marked as synced")
			return nil
		}
		return err
	}
	_ = spinner.Stop()

	views.RenderSyncResult(res)
	if !res.HasConflicts() {
		return nil
	}

	cs := res.Conflicts
	choices = expandChoiceIDs(cs, choices)
	decided := len(choices) > 0 || settingsChoice != syncer.ChoiceNone

	if r.flags.NonInteractive {
		if !decided {
			pterm.Warning.Println("Conflicts left unresolved, nothing was pushed")
			return nil
		}
	} else {
		if err := promptChoices(cs, &settingsChoice, choices); err != nil {
			return err
		}
	}

	resolved, err := engine.Resolve(ctx, userID, settingsChoice, choices)
	if err != nil {
		return fmt.Errorf("failed to resolve conflicts: %w", err)
	}
	views.RenderResolveResult(resolved)
	return nil
}

// promptChoices asks for every conflict without a choice yet.
func promptChoices(cs *syncer.ConflictSet, settingsChoice *syncer.Choice, choices map[string]syncer.Choice) error {
	if cs.Settings != nil && *settingsChoice == syncer.ChoiceNone {
		c, err := prompts.PromptSettingsConflict(cs.Settings)
		if err != nil {
			return err
		}
		*settingsChoice = c
	}
	for _, tc := range cs.Transactions {
		if _, ok := choices[tc.ID]; ok {
			continue
		}
		c, err := prompts.PromptTransactionConflict(tc)
		if err != nil {
			return err
		}
		choices[tc.ID] = c
	}
	return nil
}

// parseChoices reads repeated id=local|remote flags.
func parseChoices(raw []string) (map[string]syncer.Choice, error) {
	choices := make(map[string]syncer.Choice, len(raw))
	for _, item := range raw {
		id, value, ok := strings.Cut(item, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("%w: %q (want <id>=local|remote)", syncer.ErrInvalidChoice, item)
		}
		c, err := syncer.ParseChoice(value)
		if err != nil {
			return nil, err
		}
		if c == syncer.ChoiceNone {
			return nil, fmt.Errorf("%w: %q (want <id>=local|remote)", syncer.ErrInvalidChoice, item)
		}
		choices[id] = c
	}
	return choices, nil
}

// expandChoiceIDs lets a choice name a conflict by the short id shown in
// tables. Keys that match no conflict, or more than one, are kept as given
// so Resolve rejects them.
func expandChoiceIDs(cs *syncer.ConflictSet, choices map[string]syncer.Choice) map[string]syncer.Choice {
	out := make(map[string]syncer.Choice, len(choices))
	for key, c := range choices {
		if _, ok := cs.Transaction(key); ok {
			out[key] = c
			continue
		}
		var match string
		n := 0
		for _, tc := range cs.Transactions {
			if strings.HasPrefix(tc.ID, key) {
				match = tc.ID
				n++
			}
		}
		if n == 1 {
			out[match] = c
		} else {
			out[key] = c
		}
	}
	return out
}

type statusRunner struct {
	app *app.App
}

func NewStatusCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sync status",
		Long:  `Show the signed-in account, the configured remote, when the last sync finished and how many local changes are waiting to be pushed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &statusRunner{app: a}
			return runner.Run()
		},
	}
}

func (r *statusRunner) Run() error {
	sess, err := r.app.Sessions.Current()
	if err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			pterm.Info.Println("Not signed in. Run `leaf login` to enable sync.")
			return nil
		}
		return err
	}

	watermark, err := r.app.Store.GetWatermark(sess.UserID)
	if err != nil {
		return err
	}
	changes, err := unsyncedChanges(r.app.Service, watermark)
	if err != nil {
		return err
	}

	views.RenderSyncStatus(views.SyncStatusItem{
		UserID:       sess.UserID,
		Remote:       describeRemote(r.app.Config.Remote, sess),
		Watermark:    watermark,
		LocalChanges: changes,
	})
	return nil
}

func unsyncedChanges(svc *service.Service, watermark int64) (int, error) {
	txs, err := svc.Transaction.List(service.ListFilter{IncludeDeleted: true})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, tx := range txs {
		if tx.UpdatedAt > watermark {
			n++
		}
	}
	s, err := svc.Settings.Load()
	if err != nil {
		return 0, err
	}
	if s.UpdatedAt > watermark {
		n++
	}
	return n, nil
}

func describeRemote(rc config.RemoteConfig, sess *auth.Session) string {
	switch rc.Kind {
	case config.RemoteHTTP:
		url := sess.RemoteURL
		if url == "" {
			url = rc.URL
		}
		return "http " + url
	case config.RemotePostgres:
		return "postgres"
	case config.RemoteMemory:
		return "memory (this process only)"
	default:
		return pterm.Gray("none configured")
	}
}
