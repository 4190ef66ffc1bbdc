package prompts

import (
	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/date"
)

// PromptTransactionType prompts for transaction type selection
func PromptTransactionType() (string, error) {
	return PromptSelect("Choose the transaction type:", []PromptOption{
		{"Record Expense", constants.TypeExpense},
		{"Record Income", constants.TypeIncome},
		{"Move to Savings", constants.TypeSavings},
	}, constants.TypeExpense)
}

// PromptTransactionDate prompts for transaction date
func PromptTransactionDate(defaultDate string) (string, error) {
	if defaultDate == "" {
		defaultDate = date.Today().String()
	}
	return PromptDate(
		"Transaction Date (YYYY-MM-DD):",
		defaultDate,
		"Press Enter for today",
	)
}

// PromptCategory prompts for the budget bucket an expense is charged to.
func PromptCategory(defaultCategory string) (string, error) {
	var opts []PromptOption
	for _, key := range constants.Buckets {
		opts = append(opts, PromptOption{constants.BucketLabels[key], key})
	}
	if defaultCategory == "" {
		defaultCategory = constants.BucketGuiltFree
	}
	return PromptSelect("Which bucket does this come out of?", opts, defaultCategory)
}

// PromptIncomeSource prompts for where the income came from.
func PromptIncomeSource(defaultSource string) (string, error) {
	var opts []PromptOption
	for _, s := range constants.IncomeSources {
		opts = append(opts, PromptOption{s, s})
	}
	if defaultSource == "" {
		defaultSource = constants.IncomeSources[0]
	}
	return PromptSelect("Income source:", opts, defaultSource)
}

// PromptFundingSource prompts for what pays for an expense.
func PromptFundingSource(defaultSource string) (string, error) {
	if defaultSource == "" {
		defaultSource = constants.FundingBudget
	}
	return PromptSelect("Paid from:", []PromptOption{
		{"This period's budget", constants.FundingBudget},
		{"Extra income", constants.FundingExtra},
		{"Savings", constants.FundingSavings},
	}, defaultSource)
}
