package ui

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	l1Style = pterm.NewStyle(pterm.BgGreen, pterm.FgBlack, pterm.Bold)
	l2Style = pterm.NewStyle(pterm.FgGreen, pterm.Bold)
)

func PrintL1Title(format string, a ...interface{}) {
	l1Style.Println(fmt.Sprintf(" %s   ", fmt.Sprintf(format, a...)))
}

func PrintL2Title(format string, a ...interface{}) {
	l2Style.Println(fmt.Sprintf("# %s   ", fmt.Sprintf(format, a...)))
}

// Separator prints a thin rule between blocks of output.
func Separator() {
	pterm.FgGray.Println("────────────────────────────────────────")
}

// Colorize tints s by transaction type.
func Colorize(txType, s string) string {
	switch txType {
	case "expense":
		return pterm.Red(s)
	case "income":
		return pterm.Green(s)
	case "savings":
		return pterm.Blue(s)
	default:
		return s
	}
}
