/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package settings

import (
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/spf13/cobra"
)

func NewSettingsCmd(svc *service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change ledger settings",
		Long: `View or change ledger settings. The base currency is changed with
leaf currency migrate, which also converts every stored amount.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSettings(svc)
		},
	}

	cmd.AddCommand(NewShowCmd(svc))
	cmd.AddCommand(NewSetCmd(svc))

	return cmd
}

func NewShowCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showSettings(svc)
		},
	}
}

func showSettings(svc *service.Service) error {
	s, err := svc.Settings.Load()
	if err != nil {
		return err
	}
	return views.RenderSettings(s)
}
