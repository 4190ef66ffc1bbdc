package model

import (
	"github.com/hance08/leaf/internal/date"
	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry. AmountBase is denominated in
// Currency, which is the ledger base currency at the time it was written.
type Transaction struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Date          date.Date       `json:"date"`
	AmountBase    decimal.Decimal `json:"amountBase"`
	Currency      string          `json:"currency,omitempty"`
	Category      string          `json:"category,omitempty"`
	Source        string          `json:"source,omitempty"`
	Description   string          `json:"description,omitempty"`
	Note          *string         `json:"note,omitempty"`
	IncomeBucket  string          `json:"incomeBucket,omitempty"`
	FundingSource string          `json:"fundingSource,omitempty"`
	InputCurrency string          `json:"inputCurrency,omitempty"`
	Deleted       bool            `json:"deleted,omitempty"`
	CreatedAt     int64           `json:"createdAt"`
	UpdatedAt     int64           `json:"updatedAt"`
}

// Clone returns a deep copy, so snapshots held by a conflict set never alias
// a record that is later modified.
func (t Transaction) Clone() Transaction {
	c := t
	if t.Note != nil {
		note := *t.Note
		c.Note = &note
	}
	return c
}

// DenominatedIn reports whether AmountBase is expressed in code. Records
// written before the currency tag existed are treated as being in fallback.
func (t Transaction) DenominatedIn(code, fallback string) bool {
	if t.Currency == "" {
		return code == fallback
	}
	return t.Currency == code
}
