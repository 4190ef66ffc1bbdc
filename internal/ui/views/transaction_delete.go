package views

import (
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/ui"
	"github.com/pterm/pterm"
)

func RenderTransactionDeletePreview(tx *model.Transaction) {
	pterm.Warning.Printf("About to delete transaction %s:\n", tx.ID)

	deletionInfo := pterm.TableData{
		{"Date", tx.Date.String()},
		{"Type", tx.Type},
		{"Amount", currency.Format(tx.AmountBase, tx.Currency)},
		{"Description", tx.Description},
	}

	pterm.DefaultTable.WithData(deletionInfo).Render()
	pterm.Info.Println("The deletion is kept as a tombstone and replicates on the next sync.")
}

func RenderTransactionDeleteSuccess(id string) {
	pterm.Success.Printf("Transaction %s deleted successfully\n", id)
	ui.Separator()
}
