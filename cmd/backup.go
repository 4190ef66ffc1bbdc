/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	Output string
}

type exportRunner struct {
	svc   *service.Service
	flags *exportFlags
}

func NewExportCmd(svc *service.Service) *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as JSON",
		Example: `  leaf export -o leaf-backup.json
  leaf export > leaf-backup.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &exportRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func (r *exportRunner) Run(stdout io.Writer) error {
	if r.flags.Output == "" {
		_, err := r.svc.Backup.WriteTo(stdout)
		return err
	}

	f, err := os.Create(r.flags.Output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.flags.Output, err)
	}
	snap, err := r.svc.Backup.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	pterm.Success.Printf("Exported %d transactions to %s\n", len(snap.Transactions), r.flags.Output)
	return nil
}

type importFlags struct {
	Yes bool
}

type importRunner struct {
	svc   *service.Service
	flags *importFlags
}

func NewImportCmd(svc *service.Service) *cobra.Command {
	flags := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the ledger with a JSON backup",
		Long: `Replace every local record with the contents of a backup made by leaf export.

The sync history is cleared too, so the next sync compares everything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &importRunner{
				svc:   svc,
				flags: flags,
			}
			return runner.Run(args[0])
		},
	}

	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (r *importRunner) Run(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	snap, err := service.ReadSnapshot(f)
	if err != nil {
		return err
	}

	pterm.Warning.Printf("This replaces all local data with %d transactions from %s\n", len(snap.Transactions), path)
	if !r.flags.Yes {
		ok, err := ui.Confirm("Do you want to import this backup?", false)
		if err != nil {
			return err
		}
		if !ok {
			pterm.Info.Println("Import cancelled")
			return nil
		}
	}

	if err := r.svc.Backup.Import(snap); err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}
	pterm.Success.Println("Backup imported")
	ui.Separator()
	return nil
}
