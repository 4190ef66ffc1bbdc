package views

import (
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/service"
	"github.com/pterm/pterm"
)

// RenderTransactionSummary previews a transaction before it is saved.
func RenderTransactionSummary(input service.TransactionInput, base string) {
	pterm.DefaultSection.Println("Transaction Summary")

	tableData := pterm.TableData{
		{"Field", "Value"},
		{"Date", input.Date.String()},
		{"Type", input.Type},
		{"Amount", currency.Format(input.Amount, base)},
		{"Description", input.Description},
	}
	if input.Category != "" {
		tableData = append(tableData, []string{"Bucket", input.Category})
	}
	if input.Source != "" {
		tableData = append(tableData, []string{"Source", input.Source})
	}
	if input.FundingSource != "" {
		tableData = append(tableData, []string{"Paid From", input.FundingSource})
	}

	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
