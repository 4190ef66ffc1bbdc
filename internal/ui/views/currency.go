package views

import (
	"sort"

	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/rates"
	"github.com/pterm/pterm"
)

// RenderRates prints the quote, restricted to codes when given.
func RenderRates(q *rates.Quote, codes []string) error {
	rec := q.Record
	pterm.DefaultSection.Printf("1 %s =", rec.Base)

	if len(codes) == 0 {
		for code := range rec.Rates {
			codes = append(codes, code)
		}
		sort.Strings(codes)
	}

	tableData := pterm.TableData{{"Currency", "Rate"}}
	for _, code := range codes {
		rate, ok := rec.Rate(code)
		value := pterm.Gray("n/a")
		if ok {
			value = rate.String()
		}
		tableData = append(tableData, []string{code, value})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Fetched %s from %s\n", formatMillis(rec.FetchedAt), rec.Source)
	if q.Stale {
		pterm.Warning.Printf("These rates are out of date: %v\n", q.FetchErr)
	}
	return nil
}

func RenderMigrateResult(res *currency.MigrateResult) {
	if res.NoOp {
		pterm.Info.Printf("Base currency is already %s\n", res.NewBase)
		return
	}
	pterm.DefaultTable.WithData(pterm.TableData{
		{"From", res.OldBase},
		{"To", res.NewBase},
		{"Rate", res.Factor.String()},
		{"Converted", pterm.Sprint(res.Migrated)},
		{"Skipped", pterm.Sprint(res.Skipped)},
	}).Render()
	pterm.Success.Printf("Base currency is now %s\n", res.NewBase)
	if res.RatesWarning != nil {
		pterm.Warning.Printf("Could not refresh rates for %s: %v\n", res.NewBase, res.RatesWarning)
	}
}
