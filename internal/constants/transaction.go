package constants

const (
	// Transaction Types
	TypeIncome  = "income"
	TypeExpense = "expense"
	TypeSavings = "savings"

	// Budget Buckets
	BucketFixed         = "fixed"
	BucketInvest        = "invest"
	BucketSaveBig       = "save_big"
	BucketSaveIrregular = "save_irregular"
	BucketGuiltFree     = "guiltfree"

	// Funding Sources
	FundingBudget  = "budget"
	FundingExtra   = "extra"
	FundingSavings = "savings"

	// Date Layout
	DateFormat = "2006-01-02"

	MaxTextLen = 200
)

var Buckets = []string{BucketFixed, BucketInvest, BucketSaveBig, BucketSaveIrregular, BucketGuiltFree}

var BucketLabels = map[string]string{
	BucketFixed:         "Fixed Costs",
	BucketInvest:        "Long-Term Investments",
	BucketSaveBig:       "Savings: Big Goals",
	BucketSaveIrregular: "Savings: Irregular Expenses",
	BucketGuiltFree:     "Guilt-Free Spending",
}

var IncomeSources = []string{"Salary", "Freelance", "Allowance", "Scholarship", "Gift", "Other"}
