/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/hance08/leaf/internal/app"
	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/date"
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/ui/prompts"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/hance08/leaf/internal/validation"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type addFlags struct {
	Type     string
	Amount   string
	Currency string
	Date     string
	Category string
	Source   string
	Desc     string
	Note     string
	Funding  string
	Counts   string
}

type addRunner struct {
	app   *app.App
	flags *addFlags
	cmd   *cobra.Command
}

func NewAddCmd(a *app.App) *cobra.Command {
	flags := &addFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new transaction",
		Long: `Add a new income, expense or savings transaction.

	Amounts are recorded in the ledger's base currency. Use --currency to enter
	an amount in another currency; it is converted at the current rate.

	Examples:
	# Interactive mode
	leaf add

	# Quick mode with flags
	leaf add --type expense --amount 12.50 --category guiltfree --desc "Coffee"
	leaf add --type income --amount 2500 --source Salary
	leaf add --type expense --amount 40 --currency EUR --category fixed --desc "Phone"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &addRunner{
				app:   a,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "Transaction type: income, expense or savings")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Transaction amount (e.g., 150 or 150.50)")
	cmd.Flags().StringVar(&flags.Currency, "currency", "", "Currency the amount is entered in, default is the base currency")
	cmd.Flags().StringVar(&flags.Date, "date", "", "Transaction date (YYYY-MM-DD), default is today")
	cmd.Flags().StringVar(&flags.Category, "category", "", "Budget bucket for expenses and savings")
	cmd.Flags().StringVar(&flags.Source, "source", "", "Income source")
	cmd.Flags().StringVarP(&flags.Desc, "desc", "d", "", "Transaction description")
	cmd.Flags().StringVar(&flags.Note, "note", "", "Optional note")
	cmd.Flags().StringVar(&flags.Funding, "funding", "", "What pays for an expense: budget, extra or savings")
	cmd.Flags().StringVar(&flags.Counts, "counts-toward", "", "Where income counts: budget, extra or savings")

	return cmd
}

func (r *addRunner) Run(ctx context.Context) error {
	settings, err := r.app.Service.Settings.Load()
	if err != nil {
		return err
	}

	var input service.TransactionInput
	if r.cmd.Flags().Changed("amount") || r.cmd.Flags().Changed("type") {
		input, err = r.flagsMode()
	} else {
		input, err = r.interactiveMode()
	}
	if err != nil {
		return err
	}

	if input.InputCurrency != "" && input.InputCurrency != settings.BaseCurrency {
		rate, err := r.app.Rates.Rate(ctx, input.InputCurrency, settings.BaseCurrency)
		if err != nil {
			return fmt.Errorf("failed to convert from %s: %w", input.InputCurrency, err)
		}
		converted := input.Amount.Mul(rate).Round(2)
		pterm.Info.Printf("%s = %s\n",
			currency.Format(input.Amount, input.InputCurrency),
			currency.Format(converted, settings.BaseCurrency))
		input.Amount = converted
	}

	tx, err := r.app.Service.Transaction.Add(input)
	if err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}

	pterm.Success.Printf("Transaction created successfully! (ID: %s)\n", tx.ID)
	views.RenderTransactionSummary(input, settings.BaseCurrency)
	return nil
}

func (r *addRunner) flagsMode() (service.TransactionInput, error) {
	if r.flags.Type == "" || r.flags.Amount == "" {
		return service.TransactionInput{}, fmt.Errorf("when using flags, --type and --amount are both required")
	}

	amount, err := currency.ParseAmount(r.flags.Amount)
	if err != nil {
		return service.TransactionInput{}, fmt.Errorf("invalid amount: %w", err)
	}

	txDate := date.Today()
	if r.flags.Date != "" {
		if txDate, err = date.Parse(r.flags.Date); err != nil {
			return service.TransactionInput{}, fmt.Errorf("invalid date: %w", err)
		}
	}

	input := service.TransactionInput{
		Type:          strings.ToLower(r.flags.Type),
		Date:          txDate,
		Amount:        amount,
		Category:      r.flags.Category,
		Source:        r.flags.Source,
		Description:   r.flags.Desc,
		IncomeBucket:  r.flags.Counts,
		FundingSource: r.flags.Funding,
	}
	if r.flags.Note != "" {
		note := r.flags.Note
		input.Note = &note
	}
	if r.flags.Currency != "" {
		code := validation.NormalizeCurrency(r.flags.Currency)
		if err := validation.ValidateCurrency(code); err != nil {
			return service.TransactionInput{}, err
		}
		input.InputCurrency = code
	}
	return input, nil
}

func (r *addRunner) interactiveMode() (service.TransactionInput, error) {
	var input service.TransactionInput
	var err error

	if input.Type, err = prompts.PromptTransactionType(); err != nil {
		return input, err
	}

	amountStr, err := prompts.PromptAmount("Amount:", "Positive number, the sign follows the type", validateAmount)
	if err != nil {
		return input, err
	}
	if input.Amount, err = currency.ParseAmount(amountStr); err != nil {
		return input, err
	}

	dateStr, err := prompts.PromptTransactionDate("")
	if err != nil {
		return input, err
	}
	if input.Date, err = date.Parse(dateStr); err != nil {
		return input, fmt.Errorf("invalid date: %w", err)
	}

	switch input.Type {
	case constants.TypeIncome:
		if input.Source, err = prompts.PromptIncomeSource(""); err != nil {
			return input, err
		}
	case constants.TypeExpense:
		if input.Category, err = prompts.PromptCategory(""); err != nil {
			return input, err
		}
		if input.FundingSource, err = prompts.PromptFundingSource(""); err != nil {
			return input, err
		}
	case constants.TypeSavings:
		if input.Category, err = prompts.PromptCategory(constants.BucketSaveBig); err != nil {
			return input, err
		}
	}

	if input.Description, err = prompts.PromptText("Description:", "", false); err != nil {
		return input, err
	}
	return input, nil
}

func validateAmount(s string) error {
	amount, err := currency.ParseAmount(s)
	if err != nil {
		return fmt.Errorf("invalid number format")
	}
	if !amount.GreaterThan(decimal.Zero) {
		return fmt.Errorf("amount must be a positive number")
	}
	return nil
}
