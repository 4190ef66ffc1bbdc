package views

import "github.com/pterm/pterm"

type SystemInfoItem struct {
	ConfigPath   string
	DBPath       string
	DBExists     bool // true = Found, false = Not Found
	BaseCurrency string
	AppDataDir   string
	LogPath      string
	RemoteKind   string
	SignedInAs   string
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}

	account := pterm.Gray("signed out")
	if data.SignedInAs != "" {
		account = data.SignedInAs
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"Database Path", data.DBPath},
		{"Database Status", dbStatus},
		{"Base Currency", data.BaseCurrency},
		{"AppData Directory", data.AppDataDir},
		{"Log File", data.LogPath},
		{"Remote", data.RemoteKind},
		{"Account", account},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
