package views

import (
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/ui"
	"github.com/pterm/pterm"
)

type TransactionListView struct {
	// ShowDeleted adds a status column for tombstones.
	ShowDeleted bool
}

func NewTransactionListView(showDeleted bool) *TransactionListView {
	return &TransactionListView{ShowDeleted: showDeleted}
}

func (v *TransactionListView) Render(txs []*model.Transaction, limit int) error {
	if len(txs) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	if limit > 0 {
		pterm.DefaultSection.Printf("Showing recent transactions (limit: %d)", limit)
	} else {
		pterm.DefaultSection.Println("Transactions")
	}

	header := []string{"ID", "Date", "Type", "Category", "Description", "Amount"}
	if v.ShowDeleted {
		header = append(header, "Status")
	}
	tableData := pterm.TableData{header}

	for _, tx := range txs {
		row := []string{
			shortID(tx.ID),
			tx.Date.String(),
			ui.Colorize(tx.Type, tx.Type),
			categoryLabel(tx),
			tx.Description,
			ui.Colorize(tx.Type, currency.Format(tx.AmountBase, tx.Currency)),
		}
		if v.ShowDeleted {
			status := "active"
			if tx.Deleted {
				status = pterm.Gray("deleted")
			}
			row = append(row, status)
		}
		tableData = append(tableData, row)
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total: %d transactions\n", len(txs))
	return nil
}

// shortID trims a UUID to its first block for table display. Commands accept
// the full id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func categoryLabel(tx *model.Transaction) string {
	if tx.Category == "" {
		return tx.Source
	}
	return tx.Category
}
