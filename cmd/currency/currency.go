/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package currency

import (
	"github.com/hance08/leaf/internal/app"
	"github.com/spf13/cobra"
)

func NewCurrencyCmd(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Exchange rates and base currency",
	}

	cmd.AddCommand(NewMigrateCmd(a))
	cmd.AddCommand(NewRatesCmd(a))

	return cmd
}
