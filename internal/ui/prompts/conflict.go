package prompts

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/syncer"
)

// PromptTransactionConflict asks which side of one conflicting transaction
// to keep.
func PromptTransactionConflict(c syncer.TransactionConflict) (syncer.Choice, error) {
	choice := string(syncer.ChoiceLocal)

	local := fmt.Sprintf("Keep this device: %s %s on %s (%s)",
		c.Local.Type, currency.Format(c.Local.AmountBase, c.Local.Currency), c.Local.Date, c.Local.Description)
	remote := fmt.Sprintf("Take remote: %s %s on %s (%s)",
		c.Remote.Type, currency.Format(c.Remote.AmountBase, c.Remote.Currency), c.Remote.Date, c.Remote.Description)
	if c.Local.Deleted {
		local = "Keep this device: deleted"
	}
	if c.Remote.Deleted {
		remote = "Take remote: deleted"
	}

	err := huh.NewSelect[string]().
		Title(fmt.Sprintf("Transaction %s was changed on both sides", c.ID)).
		Options(
			huh.NewOption(local, string(syncer.ChoiceLocal)),
			huh.NewOption(remote, string(syncer.ChoiceRemote)),
		).
		Value(&choice).
		Run()
	return syncer.Choice(choice), err
}

// PromptSettingsConflict asks which side of the settings to keep.
func PromptSettingsConflict(c *syncer.SettingsConflict) (syncer.Choice, error) {
	choice := string(syncer.ChoiceLocal)

	err := huh.NewSelect[string]().
		Title("Settings were changed on both sides").
		Description(fmt.Sprintf("This device: base %s, display %s, %s\nRemote: base %s, display %s, %s",
			c.Local.BaseCurrency, c.Local.DisplayCurrency, c.Local.Period,
			c.Remote.BaseCurrency, c.Remote.DisplayCurrency, c.Remote.Period)).
		Options(
			huh.NewOption("Keep this device's settings", string(syncer.ChoiceLocal)),
			huh.NewOption("Take the remote settings", string(syncer.ChoiceRemote)),
		).
		Value(&choice).
		Run()
	return syncer.Choice(choice), err
}
