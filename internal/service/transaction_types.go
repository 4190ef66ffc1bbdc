package service

import (
	"github.com/hance08/leaf/internal/date"
	"github.com/shopspring/decimal"
)

// TransactionInput is what the user enters for a new transaction. Amount is
// a magnitude already expressed in the base currency; the sign is derived
// from Type.
type TransactionInput struct {
	Type          string
	Date          date.Date
	Amount        decimal.Decimal
	Category      string
	Source        string
	Description   string
	Note          *string
	IncomeBucket  string
	FundingSource string
	InputCurrency string
}

// TransactionPatch holds the fields to change; nil fields are left alone.
type TransactionPatch struct {
	Date          *date.Date
	Amount        *decimal.Decimal
	Category      *string
	Source        *string
	Description   *string
	Note          *string
	ClearNote     bool
	IncomeBucket  *string
	FundingSource *string
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Type           string
	Category       string
	From           date.Date
	To             date.Date
	IncludeDeleted bool
	Limit          int
}
