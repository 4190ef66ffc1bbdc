package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/hance08/leaf/internal/model"
)

// AllocationError lists every rule an allocation breaks.
type AllocationError struct {
	Problems []string
}

func (e *AllocationError) Error() string {
	return strings.Join(e.Problems, "\n")
}

// ValidateAllocations checks the bucket percentages against the budgeting
// framework: fixed costs 50-60, guilt-free 10-20, disabled savings buckets
// at 0, and a total of exactly 100.
func ValidateAllocations(a model.Allocations, enabled *model.EnabledSavings) error {
	if enabled == nil {
		enabled = &model.EnabledSavings{Invest: true, SaveBig: true, SaveIrregular: true}
	}

	var problems []string

	if a.FixedPct < 50 || a.FixedPct > 60 {
		problems = append(problems, "Fixed Costs must be between 50 and 60 (inclusive).")
	}
	if a.GuiltFreePct < 10 || a.GuiltFreePct > 20 {
		problems = append(problems, "Guilt-Free Spending must be between 10 and 20 (inclusive).")
	}

	if !enabled.Invest && a.InvestPct != 0 {
		problems = append(problems, "Long-Term Investments must be 0% when disabled.")
	}
	if !enabled.SaveBig && a.SaveBigPct != 0 {
		problems = append(problems, "Big Goals must be 0% when disabled.")
	}
	if !enabled.SaveIrregular && a.SaveIrregularPct != 0 {
		problems = append(problems, "Irregular Expenses must be 0% when disabled.")
	}

	for _, pct := range []float64{a.FixedPct, a.InvestPct, a.SaveBigPct, a.SaveIrregularPct, a.GuiltFreePct} {
		if pct < 0 || math.IsNaN(pct) {
			problems = append(problems, "Percentages must be non-negative numbers.")
			break
		}
	}

	if total := a.Total(); math.Abs(total-100) > 1e-9 {
		problems = append(problems, fmt.Sprintf("Total allocations must equal 100%%. Current total: %g%%.", total))
	}

	if len(problems) > 0 {
		return &AllocationError{Problems: problems}
	}
	return nil
}
