package views

import (
	"fmt"
	"time"

	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/syncer"
	"github.com/hance08/leaf/internal/ui"
	"github.com/pterm/pterm"
)

func RenderSyncResult(res *syncer.Result) {
	if res.HasConflicts() {
		pterm.Warning.Printf("Sync stopped: %d conflict(s) need a decision\n", res.Conflicts.Len())
		RenderConflicts(res.Conflicts)
		return
	}

	tableData := pterm.TableData{
		{"Pulled", fmt.Sprint(res.Pulled)},
		{"Pushed", fmt.Sprint(res.Pushed)},
		{"Unchanged", fmt.Sprint(res.Skipped)},
		{"Settings", settingsDirection(res.PulledSettings, res.PushedSettings)},
		{"Synced At", formatMillis(res.Watermark)},
	}
	pterm.DefaultTable.WithData(tableData).Render()
	pterm.Success.Println("Sync complete")
	ui.Separator()
}

func settingsDirection(pulled, pushed bool) string {
	switch {
	case pulled:
		return "pulled"
	case pushed:
		return "pushed"
	default:
		return "unchanged"
	}
}

// RenderConflicts lists both sides of every pending conflict.
func RenderConflicts(cs *syncer.ConflictSet) {
	if cs.Empty() {
		pterm.Info.Println("No pending conflicts")
		return
	}

	pterm.Info.Printf("Detected %s\n", formatMillis(cs.DetectedAt))

	if c := cs.Settings; c != nil {
		ui.PrintL2Title("Settings")
		pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
			{"", "This Device", "Remote"},
			{"Base Currency", c.Local.BaseCurrency, c.Remote.BaseCurrency},
			{"Display Currency", c.Local.DisplayCurrency, c.Remote.DisplayCurrency},
			{"Period", c.Local.Period, c.Remote.Period},
			{"Name", c.Local.Name, c.Remote.Name},
			{"Updated", formatMillis(c.Local.UpdatedAt), formatMillis(c.RemoteUpdatedAt)},
		}).Render()
	}

	if len(cs.Transactions) == 0 {
		return
	}

	ui.PrintL2Title("Transactions")
	tableData := pterm.TableData{{"ID", "This Device", "Remote"}}
	for _, c := range cs.Transactions {
		tableData = append(tableData, []string{c.ID, conflictSide(c.Local), conflictSide(c.Remote)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()

	pterm.Info.Println("Run `leaf sync` again to choose interactively, or pass --choose <id>=local|remote")
}

func conflictSide(tx model.Transaction) string {
	if tx.Deleted {
		return pterm.Gray("deleted")
	}
	return fmt.Sprintf("%s %s %s %q", tx.Date, tx.Type, currency.Format(tx.AmountBase, tx.Currency), tx.Description)
}

func RenderResolveResult(res *syncer.ResolveResult) {
	tableData := pterm.TableData{
		{"Kept Local", fmt.Sprint(res.KeptLocal)},
		{"Took Remote", fmt.Sprint(res.TookRemote)},
		{"Pushed", fmt.Sprint(res.Pushed)},
		{"Synced At", formatMillis(res.Watermark)},
	}
	if res.SettingsChoice != syncer.ChoiceNone {
		tableData = append(tableData, []string{"Settings", string(res.SettingsChoice)})
	}
	pterm.DefaultTable.WithData(tableData).Render()
	pterm.Success.Println("Conflicts resolved")
}

type SyncStatusItem struct {
	UserID       string
	Remote       string
	Watermark    int64
	LocalChanges int
}

func RenderSyncStatus(data SyncStatusItem) {
	last := "never"
	if data.Watermark > 0 {
		last = fmt.Sprintf("%s (%s ago)", formatMillis(data.Watermark),
			time.Since(time.UnixMilli(data.Watermark)).Round(time.Second))
	}
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Account", data.UserID},
		{"Remote", data.Remote},
		{"Last Sync", last},
		{"Unsynced Changes", fmt.Sprint(data.LocalChanges)},
	}).Render()
}
