package service

import (
	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/store"
	"github.com/shopspring/decimal"
)

// BucketSummary is one budget bucket for the selected range.
type BucketSummary struct {
	Key       string
	Label     string
	Percent   float64
	Allocated decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

// Overspent reports a negative remainder. Savings buckets going negative
// mean the savings were used, which is not flagged.
func (b BucketSummary) Overspent() bool {
	if b.Key == constants.BucketSaveBig || b.Key == constants.BucketSaveIrregular {
		return false
	}
	return b.Remaining.IsNegative()
}

type Summary struct {
	BaseCurrency string
	TotalIncome  decimal.Decimal
	Buckets      []BucketSummary
}

type BudgetService struct {
	repo     store.Repository
	settings *SettingsService
}

func NewBudgetService(repo store.Repository, settings *SettingsService) *BudgetService {
	return &BudgetService{repo: repo, settings: settings}
}

// Summarize splits total income across the buckets by the allocation
// percentages and subtracts what was spent from each.
func (bs *BudgetService) Summarize(f ListFilter) (*Summary, error) {
	s, err := bs.settings.Load()
	if err != nil {
		return nil, err
	}
	ts := &TransactionService{repo: bs.repo}
	f.IncludeDeleted = false
	f.Limit = 0
	f.Type, f.Category = "", ""
	txs, err := ts.List(f)
	if err != nil {
		return nil, err
	}
	return summarize(s, txs), nil
}

func summarize(s *model.Settings, txs []*model.Transaction) *Summary {
	sum := &Summary{BaseCurrency: s.BaseCurrency, TotalIncome: decimal.Zero}
	spent := make(map[string]decimal.Decimal, len(constants.Buckets))

	for _, tx := range txs {
		switch tx.Type {
		case constants.TypeIncome:
			sum.TotalIncome = sum.TotalIncome.Add(tx.AmountBase)
		case constants.TypeExpense:
			spent[tx.Category] = spent[tx.Category].Add(tx.AmountBase.Abs())
		}
	}

	pct := map[string]float64{
		constants.BucketFixed:         s.Allocations.FixedPct,
		constants.BucketInvest:        s.Allocations.InvestPct,
		constants.BucketSaveBig:       s.Allocations.SaveBigPct,
		constants.BucketSaveIrregular: s.Allocations.SaveIrregularPct,
		constants.BucketGuiltFree:     s.Allocations.GuiltFreePct,
	}
	hundred := decimal.NewFromInt(100)
	for _, key := range constants.Buckets {
		allocated := sum.TotalIncome.Mul(decimal.NewFromFloat(pct[key])).Div(hundred)
		sum.Buckets = append(sum.Buckets, BucketSummary{
			Key:       key,
			Label:     constants.BucketLabels[key],
			Percent:   pct[key],
			Allocated: allocated,
			Spent:     spent[key],
			Remaining: allocated.Sub(spent[key]),
		})
	}
	return sum
}
