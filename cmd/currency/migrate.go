package currency

import (
	"context"
	"fmt"

	"github.com/hance08/leaf/internal/app"
	"github.com/hance08/leaf/internal/ui"
	"github.com/hance08/leaf/internal/ui/prompts"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/hance08/leaf/internal/validation"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type migrateRunner struct {
	app *app.App
	yes bool
}

func NewMigrateCmd(a *app.App) *cobra.Command {
	runner := &migrateRunner{app: a}

	cmd := &cobra.Command{
		Use:   "migrate [NEW]",
		Short: "Change the base currency and convert every amount",
		Long: `Change the ledger base currency. Every stored amount is converted at the
current exchange rate and synced to your other devices on the next sync.

If the conversion stops part way, run the same command again to finish it.`,
		Example: `  leaf currency migrate EUR`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Run(cmd.Context(), args)
		},
	}
	cmd.Flags().BoolVarP(&runner.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (r *migrateRunner) Run(ctx context.Context, args []string) error {
	settings, err := r.app.Service.Settings.Load()
	if err != nil {
		return err
	}

	var newBase string
	if len(args) == 1 {
		newBase = validation.NormalizeCurrency(args[0])
	} else {
		newBase, err = prompts.PromptCurrency("New base currency:", "Currently "+settings.BaseCurrency, settings.BaseCurrency)
		if err != nil {
			return err
		}
	}
	if err := validation.ValidateCurrency(newBase); err != nil {
		return err
	}

	if newBase != settings.BaseCurrency && !r.yes {
		confirmed, err := ui.Confirm(fmt.Sprintf("Convert every amount from %s to %s?", settings.BaseCurrency, newBase), false)
		if err != nil {
			return err
		}
		if !confirmed {
			pterm.Info.Println("Migration cancelled")
			return nil
		}
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Converting %s to %s...", settings.BaseCurrency, newBase))
	res, err := r.app.Service.Settings.ChangeBaseCurrency(ctx, newBase)
	if err != nil {
		spinner.Fail("Migration failed")
		return err
	}
	_ = spinner.Stop()

	views.RenderMigrateResult(res)
	return nil
}
