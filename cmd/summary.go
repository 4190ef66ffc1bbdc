/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/spf13/cobra"
)

type summaryFlags struct {
	From string
	To   string
}

type summaryRunner struct {
	svc   *service.Service
	flags *summaryFlags
}

func NewSummaryCmd(svc *service.Service) *cobra.Command {
	flags := &summaryFlags{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show how income splits across the budget buckets",
		Long: `Split income across the budget buckets by the allocation percentages in
your settings and show what is left in each after expenses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &summaryRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run()
		},
	}

	cmd.Flags().StringVar(&flags.From, "from", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.To, "to", "", "Latest date (YYYY-MM-DD)")

	return cmd
}

func (r *summaryRunner) Run() error {
	filter, err := dateFilter(r.flags.From, r.flags.To)
	if err != nil {
		return err
	}

	summary, err := r.svc.Budget.Summarize(filter)
	if err != nil {
		return err
	}
	return views.RenderBudgetSummary(summary)
}
