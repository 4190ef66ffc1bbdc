package errhandler

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/remote"
	"github.com/hance08/leaf/internal/syncer"
	"github.com/pterm/pterm"
)

// IsInterrupt reports whether err came from the user aborting a prompt.
func IsInterrupt(err error) bool {
	return errors.Is(err, terminal.InterruptErr) ||
		errors.Is(err, huh.ErrUserAborted) ||
		strings.Contains(err.Error(), "interrupt")
}

// HandleError prints err for the user and returns the process exit code.
func HandleError(err error) int {
	if IsInterrupt(err) {
		pterm.Warning.Println("Operation Cancelled")
		return 0
	}

	pterm.Error.Println(capitalize(err.Error()))
	if hint := Hint(err); hint != "" {
		pterm.Info.Println(hint)
	}
	return 1
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// Hint suggests the next step for errors the user can act on.
func Hint(err error) string {
	var partial *currency.PartialMigrationError
	switch {
	case errors.As(err, &partial):
		return fmt.Sprintf("%d transaction(s) still need converting, run the same `leaf currency migrate` again", partial.Remaining)
	case remote.IsAuthError(err):
		return "Your session was rejected, sign in again with `leaf login`"
	case errors.Is(err, syncer.ErrAuthRequired):
		return "Sign in with `leaf login`"
	case errors.Is(err, syncer.ErrBusy):
		return "Wait for the other operation to finish and try again"
	case errors.Is(err, syncer.ErrTransport):
		return "Check your connection, nothing was written"
	case errors.Is(err, currency.ErrRateUnavailable):
		return "No exchange rate is cached for this pair, try again when online"
	}
	return ""
}
