package currency

import (
	"context"

	"github.com/hance08/leaf/internal/app"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/hance08/leaf/internal/validation"
	"github.com/spf13/cobra"
)

type ratesFlags struct {
	Refresh bool
	Base    string
}

type ratesRunner struct {
	app   *app.App
	flags *ratesFlags
}

func NewRatesCmd(a *app.App) *cobra.Command {
	flags := &ratesFlags{}

	cmd := &cobra.Command{
		Use:   "rates [CODE...]",
		Short: "Show exchange rates",
		Long: `Show exchange rates for the base currency. Cached rates are used while
they are younger than rates.max_age; --refresh always fetches.`,
		Example: `  leaf currency rates
  leaf currency rates EUR GBP --refresh`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ratesRunner{
				app:   a,
				flags: flags,
			}
			return runner.Run(cmd.Context(), args)
		},
	}

	cmd.Flags().BoolVar(&flags.Refresh, "refresh", false, "Fetch fresh rates even if the cache is recent")
	cmd.Flags().StringVar(&flags.Base, "base", "", "Quote against this currency instead of the base currency")

	return cmd
}

func (r *ratesRunner) Run(ctx context.Context, args []string) error {
	base := validation.NormalizeCurrency(r.flags.Base)
	if base == "" {
		settings, err := r.app.Service.Settings.Load()
		if err != nil {
			return err
		}
		base = settings.BaseCurrency
	}

	maxAge := r.app.Rates.MaxAge()
	if r.flags.Refresh {
		maxAge = 0
	}

	quote, err := r.app.Rates.Ensure(ctx, base, maxAge)
	if err != nil {
		return err
	}

	codes := make([]string, 0, len(args))
	for _, arg := range args {
		codes = append(codes, validation.NormalizeCurrency(arg))
	}
	return views.RenderRates(quote, codes)
}
