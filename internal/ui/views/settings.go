package views

import (
	"fmt"

	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/model"
	"github.com/pterm/pterm"
)

func RenderSettings(s *model.Settings) error {
	savings := "-"
	if es := s.EnabledSavings; es != nil {
		savings = fmt.Sprintf("invest=%t big=%t irregular=%t", es.Invest, es.SaveBig, es.SaveIrregular)
	}

	a := s.Allocations
	tableData := pterm.TableData{
		{"Name", s.Name},
		{"Base Currency", s.BaseCurrency},
		{"Display Currency", s.DisplayCurrency},
		{"Period", s.Period},
		{"Cycle Start", s.CycleStart.String()},
		{"Theme", s.Theme},
		{"Enabled Savings", savings},
		{constants.BucketLabels[constants.BucketFixed], pct(a.FixedPct)},
		{constants.BucketLabels[constants.BucketInvest], pct(a.InvestPct)},
		{constants.BucketLabels[constants.BucketSaveBig], pct(a.SaveBigPct)},
		{constants.BucketLabels[constants.BucketSaveIrregular], pct(a.SaveIrregularPct)},
		{constants.BucketLabels[constants.BucketGuiltFree], pct(a.GuiltFreePct)},
		{"Updated", formatMillis(s.UpdatedAt)},
	}
	return pterm.DefaultTable.WithData(tableData).Render()
}

func pct(v float64) string {
	return fmt.Sprintf("%g%%", v)
}
