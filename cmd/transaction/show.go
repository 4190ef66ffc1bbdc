package transaction

import (
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/spf13/cobra"
)

type ShowCommandRunner struct {
	svc *service.Service
}

func NewShowCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction-id>",
		Short: "Show transaction details",
		Long:  `Show transaction details. The id may be the short prefix printed by leaf list.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ShowCommandRunner{
				svc: svc,
			}
			return runner.Run(args)
		},
	}
}

func (r *ShowCommandRunner) Run(args []string) error {
	tx, err := r.svc.Transaction.Find(args[0])
	if err != nil {
		return err
	}

	return views.RenderTransactionDetail(tx)
}
