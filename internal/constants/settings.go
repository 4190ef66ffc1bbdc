package constants

const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"

	DefaultCurrency = "USD"
	DefaultTheme    = "leaf"

	SettingsKey = "app"
)

// CommonCurrencies are offered first in currency pickers.
var CommonCurrencies = []string{
	"USD", "EUR", "GBP", "JPY", "AUD", "CAD", "CHF", "NZD",
	"SEK", "NOK", "DKK", "PLN", "CZK", "HUF", "RON", "BGN",
	"TRY", "ILS", "ZAR", "SGD", "HKD", "CNY", "INR", "KRW",
	"PHP", "THB", "MYR", "IDR",
}
