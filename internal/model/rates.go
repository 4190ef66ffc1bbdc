package model

import "github.com/shopspring/decimal"

// RateRecord is a cached set of exchange rates quoted against Base:
// 1 Base = Rates[code] code.
type RateRecord struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	FetchedAt int64                      `json:"fetchedAt"`
	Source    string                     `json:"source,omitempty"`
	Date      string                     `json:"date,omitempty"`
}

// Rate returns the factor converting one unit of Base into to.
func (r *RateRecord) Rate(to string) (decimal.Decimal, bool) {
	if r == nil {
		return decimal.Decimal{}, false
	}
	if to == r.Base {
		return decimal.NewFromInt(1), true
	}
	rate, ok := r.Rates[to]
	if !ok || !rate.IsPositive() {
		return decimal.Decimal{}, false
	}
	return rate, true
}
