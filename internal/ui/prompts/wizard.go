package prompts

import (
	"github.com/charmbracelet/huh"
	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/validation"
)

const otherCurrency = "Other"

// PromptInitCurrency asks for the base currency on first run.
func PromptInitCurrency(currDefault string) (string, error) {
	return PromptCurrency(
		"Welcome to leaf! Pick the base currency for your ledger:",
		"Every amount is stored in this currency. You can migrate to another one later with `leaf currency migrate`.",
		currDefault,
	)
}

// PromptCurrency offers the common currencies and falls back to free input.
func PromptCurrency(title, description, currDefault string) (string, error) {
	selection := currDefault

	var opts []huh.Option[string]
	for _, code := range constants.CommonCurrencies {
		opts = append(opts, huh.NewOption(code, code))
	}
	opts = append(opts, huh.NewOption(otherCurrency, otherCurrency))

	err := huh.NewSelect[string]().
		Title(title).
		Description(description).
		Options(opts...).
		Height(10).
		Value(&selection).
		Run()

	if err != nil {
		return "", err
	}

	if selection != otherCurrency {
		return selection, nil
	}

	var customInput string
	err = huh.NewInput().
		Title("Please enter the currency code:").
		Description("Please use the ISO 4217 standard 3-letter currency code.").
		Value(&customInput).
		Validate(func(s string) error { return validation.ValidateCurrency(s) }).
		Run()

	if err != nil {
		return "", err
	}

	return validation.NormalizeCurrency(customInput), nil
}
