package transaction

import (
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/ui"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type DeleteCommandRunner struct {
	svc *service.Service
	yes bool
}

func NewDeleteCmd(svc *service.Service) *cobra.Command {
	runner := &DeleteCommandRunner{svc: svc}

	cmd := &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Long:  `Delete a transaction. Other devices drop it on their next sync.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Run(args)
		},
	}
	cmd.Flags().BoolVarP(&runner.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (r *DeleteCommandRunner) Run(args []string) error {
	// Get transaction details first to show what will be deleted
	tx, err := r.svc.Transaction.Find(args[0])
	if err != nil {
		return err
	}

	views.RenderTransactionDeletePreview(tx)

	if !r.yes {
		confirmed, err := ui.Confirm("Do you want to delete this transaction?", false)
		if err != nil {
			return err
		}
		if !confirmed {
			pterm.Info.Println("Deletion cancelled")
			return nil
		}
	}

	if err := r.svc.Transaction.Delete(tx.ID); err != nil {
		return err
	}

	views.RenderTransactionDeleteSuccess(tx.ID)
	return nil
}
