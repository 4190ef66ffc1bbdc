package settings

import (
	"fmt"

	"github.com/hance08/leaf/internal/date"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/service"
	"github.com/hance08/leaf/internal/ui/views"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

type setFlags struct {
	Display    string
	Period     string
	Name       string
	Theme      string
	CycleStart string

	Fixed         float64
	Invest        float64
	SaveBig       float64
	SaveIrregular float64
	GuiltFree     float64

	EnableInvest        bool
	EnableSaveBig       bool
	EnableSaveIrregular bool
}

type setRunner struct {
	svc   *service.Service
	flags *setFlags
	cmd   *cobra.Command
}

func NewSetCmd(svc *service.Service) *cobra.Command {
	flags := &setFlags{}

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Example: `  leaf settings set --display-currency EUR --period weekly
  leaf settings set --fixed 50 --guiltfree 20
  leaf settings set --enable-invest=false --invest 0 --fixed 65`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &setRunner{
				svc:   svc,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.Display, "display-currency", "", "Currency amounts are shown in")
	f.StringVar(&flags.Period, "period", "", "Budget period: weekly or monthly")
	f.StringVar(&flags.Name, "name", "", "Your name")
	f.StringVar(&flags.Theme, "theme", "", "Theme name")
	f.StringVar(&flags.CycleStart, "cycle-start", "", "First day of the budget cycle (YYYY-MM-DD)")
	f.Float64Var(&flags.Fixed, "fixed", 0, "Fixed costs share in percent")
	f.Float64Var(&flags.Invest, "invest", 0, "Long-term investments share in percent")
	f.Float64Var(&flags.SaveBig, "save-big", 0, "Big goals savings share in percent")
	f.Float64Var(&flags.SaveIrregular, "save-irregular", 0, "Irregular expenses savings share in percent")
	f.Float64Var(&flags.GuiltFree, "guiltfree", 0, "Guilt-free spending share in percent")
	f.BoolVar(&flags.EnableInvest, "enable-invest", true, "Use the investments bucket")
	f.BoolVar(&flags.EnableSaveBig, "enable-save-big", true, "Use the big goals bucket")
	f.BoolVar(&flags.EnableSaveIrregular, "enable-save-irregular", true, "Use the irregular expenses bucket")

	return cmd
}

func (r *setRunner) Run() error {
	current, err := r.svc.Settings.Load()
	if err != nil {
		return err
	}

	patch, err := r.patch(current)
	if err != nil {
		return err
	}
	if patch == (service.SettingsPatch{}) {
		return fmt.Errorf("nothing to change, see leaf settings set --help")
	}

	updated, err := r.svc.Settings.Update(patch)
	if err != nil {
		return err
	}

	pterm.Success.Println("Settings updated")
	return views.RenderSettings(updated)
}

func (r *setRunner) patch(current *model.Settings) (service.SettingsPatch, error) {
	var patch service.SettingsPatch
	f := r.cmd.Flags()

	if f.Changed("display-currency") {
		patch.DisplayCurrency = &r.flags.Display
	}
	if f.Changed("period") {
		patch.Period = &r.flags.Period
	}
	if f.Changed("name") {
		patch.Name = &r.flags.Name
	}
	if f.Changed("theme") {
		patch.Theme = &r.flags.Theme
	}
	if f.Changed("cycle-start") {
		d, err := date.Parse(r.flags.CycleStart)
		if err != nil {
			return patch, err
		}
		patch.CycleStart = &d
	}

	alloc := current.Allocations
	allocChanged := false
	for name, dst := range map[string]*float64{
		"fixed":          &alloc.FixedPct,
		"invest":         &alloc.InvestPct,
		"save-big":       &alloc.SaveBigPct,
		"save-irregular": &alloc.SaveIrregularPct,
		"guiltfree":      &alloc.GuiltFreePct,
	} {
		if f.Changed(name) {
			v, _ := f.GetFloat64(name)
			*dst = v
			allocChanged = true
		}
	}
	if allocChanged {
		patch.Allocations = &alloc
	}

	if f.Changed("enable-invest") || f.Changed("enable-save-big") || f.Changed("enable-save-irregular") {
		es := model.EnabledSavings{Invest: true, SaveBig: true, SaveIrregular: true}
		if current.EnabledSavings != nil {
			es = *current.EnabledSavings
		}
		if f.Changed("enable-invest") {
			es.Invest = r.flags.EnableInvest
		}
		if f.Changed("enable-save-big") {
			es.SaveBig = r.flags.EnableSaveBig
		}
		if f.Changed("enable-save-irregular") {
			es.SaveIrregular = r.flags.EnableSaveIrregular
		}
		patch.EnabledSavings = &es
	}

	return patch, nil
}
