package views

import (
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/service"
	"github.com/pterm/pterm"
)

func RenderBudgetSummary(s *service.Summary) error {
	pterm.DefaultSection.Printf("Income: %s", currency.Format(s.TotalIncome, s.BaseCurrency))

	tableData := pterm.TableData{
		{"Bucket", "Share", "Allocated", "Spent", "Remaining"},
	}
	for _, b := range s.Buckets {
		remaining := currency.Format(b.Remaining, s.BaseCurrency)
		if b.Overspent() {
			remaining = pterm.Red(remaining)
		}
		tableData = append(tableData, []string{
			b.Label,
			pct(b.Percent),
			currency.Format(b.Allocated, s.BaseCurrency),
			currency.Format(b.Spent, s.BaseCurrency),
			remaining,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
