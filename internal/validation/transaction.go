package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/model"
	"github.com/shopspring/decimal"
)

// ValidateAmount validates a positive amount typed by the user.
func ValidateAmount(val any) error {
	input, ok := val.(string)
	if !ok {
		return fmt.Errorf("amount must be a string")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("amount is required")
	}

	amount, err := decimal.NewFromString(input)
	if err != nil {
		return fmt.Errorf("invalid number format")
	}

	if !amount.IsPositive() {
		return fmt.Errorf("amount must be a positive number")
	}

	return nil
}

// ValidateTransaction checks a transaction before it is written locally.
func ValidateTransaction(tx *model.Transaction) error {
	if strings.TrimSpace(tx.ID) == "" {
		return fmt.Errorf("transaction id can't be empty")
	}

	switch tx.Type {
	case constants.TypeIncome:
	case constants.TypeExpense, constants.TypeSavings:
		if !slices.Contains(constants.Buckets, tx.Category) {
			return fmt.Errorf("unknown category '%s'", tx.Category)
		}
	default:
		return fmt.Errorf("unknown transaction type '%s'", tx.Type)
	}

	if tx.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}

	if tx.AmountBase.IsZero() {
		return fmt.Errorf("amount can't be zero")
	}

	if len(tx.Description) > constants.MaxTextLen {
		return fmt.Errorf("description too long (max %d characters)", constants.MaxTextLen)
	}

	if tx.Note != nil && len(*tx.Note) > constants.MaxTextLen {
		return fmt.Errorf("note too long (max %d characters)", constants.MaxTextLen)
	}

	return nil
}
