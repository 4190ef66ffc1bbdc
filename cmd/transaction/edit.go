package transaction

import (
	"fmt"

	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/date"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/ui"
	"github.com/hance08/leaf/internal/ui/prompts"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type editFlags struct {
	Amount   string
	Date     string
	Desc     string
	Note     string
	Category string
	Source   string
	Funding  string
}

type EditCommandRunner struct {
	svc   *service.Service
	flags *editFlags
	cmd   *cobra.Command
}

func NewEditCmd(svc *service.Service) *cobra.Command {
	flags := &editFlags{}

	cmd := &cobra.Command{
		Use:   "edit <transaction-id>",
		Short: "Edit a transaction",
		Long: `Edit a transaction interactively, or change single fields with flags.

	Examples:
	leaf edit 3f2a9c1e
	leaf edit 3f2a9c1e --amount 18.40 --desc "Lunch"
	leaf edit 3f2a9c1e --note ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &EditCommandRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run(args)
		},
	}

	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "New amount")
	cmd.Flags().StringVar(&flags.Date, "date", "", "New date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&flags.Desc, "desc", "d", "", "New description")
	cmd.Flags().StringVar(&flags.Note, "note", "", "New note, empty to remove it")
	cmd.Flags().StringVar(&flags.Category, "category", "", "New budget bucket")
	cmd.Flags().StringVar(&flags.Source, "source", "", "New income source")
	cmd.Flags().StringVar(&flags.Funding, "funding", "", "New funding source")

	return cmd
}

func (r *EditCommandRunner) Run(args []string) error {
	tx, err := r.svc.Transaction.Find(args[0])
	if err != nil {
		return err
	}

	var patch service.TransactionPatch
	if r.hasFieldFlags() {
		if patch, err = r.flagsPatch(); err != nil {
			return err
		}
	} else {
		var save bool
		if patch, save, err = r.interactivePatch(tx); err != nil {
			return err
		}
		if !save {
			pterm.Info.Println("Changes discarded")
			return nil
		}
	}

	updated, err := r.svc.Transaction.Edit(tx.ID, patch)
	if err != nil {
		return fmt.Errorf("failed to save changes: %w", err)
	}

	pterm.Success.Printf("Transaction %s updated successfully\n", updated.ID)
	ui.Separator()
	return nil
}

func (r *EditCommandRunner) hasFieldFlags() bool {
	for _, name := range []string{"amount", "date", "desc", "note", "category", "source", "funding"} {
		if r.cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (r *EditCommandRunner) flagsPatch() (service.TransactionPatch, error) {
	var patch service.TransactionPatch
	flags := r.cmd.Flags()

	if flags.Changed("amount") {
		amount, err := currency.ParseAmount(r.flags.Amount)
		if err != nil {
			return patch, err
		}
		patch.Amount = &amount
	}
	if flags.Changed("date") {
		d, err := date.Parse(r.flags.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &d
	}
	if flags.Changed("desc") {
		patch.Description = &r.flags.Desc
	}
	if flags.Changed("note") {
		if r.flags.Note == "" {
			patch.ClearNote = true
		} else {
			patch.Note = &r.flags.Note
		}
	}
	if flags.Changed("category") {
		patch.Category = &r.flags.Category
	}
	if flags.Changed("source") {
		patch.Source = &r.flags.Source
	}
	if flags.Changed("funding") {
		patch.FundingSource = &r.flags.Funding
	}
	return patch, nil
}

const (
	menuBasic   = "basic"
	menuAmount  = "amount"
	menuBucket  = "bucket"
	menuSave    = "save"
	menuDiscard = "discard"
)

// interactivePatch loops over an edit menu until the user saves or
// discards. It reports whether to save.
func (r *EditCommandRunner) interactivePatch(tx *model.Transaction) (service.TransactionPatch, bool, error) {
	var patch service.TransactionPatch

	pterm.DefaultSection.Printf("Editing Transaction %s", tx.ID)
	if err := views.RenderTransactionDetail(tx); err != nil {
		return patch, false, err
	}

	bucketLabel := "Budget Bucket"
	if tx.Type == constants.TypeIncome {
		bucketLabel = "Income Source"
	}

	for {
		choice, err := prompts.PromptSelect("What would you like to edit?", []prompts.PromptOption{
			{Label: "Basic Info (description, date, note)", Value: menuBasic},
			{Label: "Amount", Value: menuAmount},
			{Label: bucketLabel, Value: menuBucket},
			{Label: "Save & Exit", Value: menuSave},
			{Label: "Cancel (discard changes)", Value: menuDiscard},
		}, menuBasic)
		if err != nil {
			return patch, false, err
		}

		switch choice {
		case menuBasic:
			if err := editBasicInfo(tx, &patch); err != nil {
				pterm.Error.Printf("Failed to edit basic info: %v\n", err)
			}
		case menuAmount:
			amountStr, err := prompts.PromptAmount("New amount:", "Currently "+currency.Format(tx.AmountBase.Abs(), tx.Currency), nil)
			if err != nil {
				return patch, false, err
			}
			amount, err := currency.ParseAmount(amountStr)
			if err != nil {
				pterm.Error.Println(err)
				continue
			}
			patch.Amount = &amount
		case menuBucket:
			if err := editBucket(tx, &patch); err != nil {
				return patch, false, err
			}
		case menuSave:
			return patch, true, nil
		case menuDiscard:
			return patch, false, nil
		}
	}
}

func editBasicInfo(tx *model.Transaction, patch *service.TransactionPatch) error {
	desc, err := prompts.PromptText("Description:", tx.Description, false)
	if err != nil {
		return err
	}
	patch.Description = &desc

	dateStr, err := prompts.PromptDate("Date (YYYY-MM-DD):", tx.Date.String(), "Press Enter to keep")
	if err != nil {
		return err
	}
	d, err := date.Parse(dateStr)
	if err != nil {
		return err
	}
	patch.Date = &d

	current := ""
	if tx.Note != nil {
		current = *tx.Note
	}
	note, err := prompts.PromptText("Note (empty to remove):", current, false)
	if err != nil {
		return err
	}
	if note == "" {
		patch.ClearNote = true
		patch.Note = nil
	} else {
		patch.ClearNote = false
		patch.Note = &note
	}

	pterm.Success.Println("Basic info updated")
	return nil
}

func editBucket(tx *model.Transaction, patch *service.TransactionPatch) error {
	if tx.Type == constants.TypeIncome {
		source, err := prompts.PromptIncomeSource(tx.Source)
		if err != nil {
			return err
		}
		patch.Source = &source
		return nil
	}

	category, err := prompts.PromptCategory(tx.Category)
	if err != nil {
		return err
	}
	patch.Category = &category

	if tx.Type == constants.TypeExpense {
		funding, err := prompts.PromptFundingSource(tx.FundingSource)
		if err != nil {
			return err
		}
		patch.FundingSource = &funding
	}
	return nil
}
