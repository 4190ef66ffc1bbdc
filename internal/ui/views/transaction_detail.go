package views

import (
	"time"

	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/ui"
	"github.com/pterm/pterm"
)

func RenderTransactionDetail(tx *model.Transaction) error {
	pterm.Println()
	ui.PrintL2Title("Transaction Info")

	note := "-"
	if tx.Note != nil && *tx.Note != "" {
		note = *tx.Note
	}

	infoData := pterm.TableData{
		{"Field", "Value"},
		{"ID", tx.ID},
		{"Date", tx.Date.String()},
		{"Type", ui.Colorize(tx.Type, tx.Type)},
		{"Amount", currency.Format(tx.AmountBase, tx.Currency)},
		{"Description", tx.Description},
		{"Note", note},
	}

	switch tx.Type {
	case constants.TypeIncome:
		infoData = append(infoData,
			[]string{"Source", tx.Source},
			[]string{"Counts Toward", tx.IncomeBucket},
		)
	case constants.TypeExpense:
		infoData = append(infoData,
			[]string{"Bucket", constants.BucketLabels[tx.Category]},
			[]string{"Paid From", tx.FundingSource},
		)
	case constants.TypeSavings:
		infoData = append(infoData, []string{"Bucket", constants.BucketLabels[tx.Category]})
	}

	if tx.InputCurrency != "" && tx.InputCurrency != tx.Currency {
		infoData = append(infoData, []string{"Entered In", tx.InputCurrency})
	}
	infoData = append(infoData,
		[]string{"Created", formatMillis(tx.CreatedAt)},
		[]string{"Updated", formatMillis(tx.UpdatedAt)},
	)

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render()
}

func formatMillis(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}
