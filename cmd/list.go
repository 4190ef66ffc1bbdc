/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/hance08/leaf/internal/date"
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/spf13/cobra"
)

type listFlags struct {
	Type     string
	Category string
	From     string
	To       string
	Limit    int
	All      bool
}

type listRunner struct {
	svc   *service.Service
	flags *listFlags
}

func NewListCmd(svc *service.Service) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent transactions",
		Long: `List recent transactions, newest first.

Deleted transactions are hidden unless --all is given.`,
		Example: `  # List recent transactions
  leaf list

  # Expenses charged to fixed costs in March
  leaf list --type expense --category fixed --from 2025-03-01 --to 2025-03-31

  # Limit the number of transactions
  leaf list --limit 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &listRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "Filter by type: income, expense or savings")
	cmd.Flags().StringVar(&flags.Category, "category", "", "Filter by budget bucket")
	cmd.Flags().StringVar(&flags.From, "from", "", "Earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.To, "to", "", "Latest date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 20, "Maximum number of transactions to display")
	cmd.Flags().BoolVar(&flags.All, "all", false, "Include deleted transactions")

	return cmd
}

func (r *listRunner) Run() error {
	filter, err := dateFilter(r.flags.From, r.flags.To)
	if err != nil {
		return err
	}
	filter.Type = r.flags.Type
	filter.Category = r.flags.Category
	filter.Limit = r.flags.Limit
	filter.IncludeDeleted = r.flags.All

	txs, err := r.svc.Transaction.List(filter)
	if err != nil {
		return fmt.Errorf("failed to get transactions: %w", err)
	}

	return views.NewTransactionListView(r.flags.All).Render(txs, r.flags.Limit)
}

func dateFilter(from, to string) (service.ListFilter, error) {
	var f service.ListFilter
	var err error
	if from != "" {
		if f.From, err = date.Parse(from); err != nil {
			return f, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if to != "" {
		if f.To, err = date.Parse(to); err != nil {
			return f, fmt.Errorf("invalid --to: %w", err)
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, fmt.Errorf("--to is before --from")
	}
	return f, nil
}
