package model

import (
	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/date"
)

type EnabledSavings struct {
	Invest        bool `json:"invest"`
	SaveBig       bool `json:"save_big"`
	SaveIrregular bool `json:"save_irregular"`
}

type Allocations struct {
	FixedPct         float64 `json:"fixedPct"`
	InvestPct        float64 `json:"investPct"`
	SaveBigPct       float64 `json:"saveBigPct"`
	SaveIrregularPct float64 `json:"saveIrregularPct"`
	GuiltFreePct     float64 `json:"guiltFreePct"`
}

// Total returns the sum of every bucket percentage.
func (a Allocations) Total() float64 {
	return a.FixedPct + a.InvestPct + a.SaveBigPct + a.SaveIrregularPct + a.GuiltFreePct
}

func DefaultAllocations() Allocations {
	return Allocations{
		FixedPct:         55,
		InvestPct:        10,
		SaveBigPct:       10,
		SaveIrregularPct: 10,
		GuiltFreePct:     15,
	}
}

// Settings is the per-replica singleton holding ledger preferences.
type Settings struct {
	BaseCurrency    string          `json:"baseCurrency"`
	DisplayCurrency string          `json:"displayCurrency"`
	Period          string          `json:"period"`
	Name            string          `json:"name"`
	Theme           string          `json:"theme"`
	EnabledSavings  *EnabledSavings `json:"enabledSavings,omitempty"`
	CycleStart      date.Date       `json:"cycleStartISO"`
	Allocations     Allocations     `json:"allocations"`
	CreatedAt       int64           `json:"createdAt"`
	UpdatedAt       int64           `json:"updatedAt"`
}

// DefaultSettings builds the settings a fresh replica starts with.
func DefaultSettings(currency string, nowMs int64) *Settings {
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	return &Settings{
		BaseCurrency:    currency,
		DisplayCurrency: currency,
		Period:          constants.PeriodMonthly,
		Theme:           constants.DefaultTheme,
		EnabledSavings:  &EnabledSavings{Invest: true, SaveBig: true, SaveIrregular: true},
		CycleStart:      date.Today(),
		Allocations:     DefaultAllocations(),
		CreatedAt:       nowMs,
		UpdatedAt:       nowMs,
	}
}

// EnsureDefaults fills fields missing from records written by older
// versions. It reports whether anything changed.
func (s *Settings) EnsureDefaults(nowMs int64) bool {
	changed := false
	if s.EnabledSavings == nil {
		s.EnabledSavings = &EnabledSavings{Invest: true, SaveBig: true, SaveIrregular: true}
		changed = true
	}
	if s.CycleStart.IsZero() {
		s.CycleStart = date.Today()
		changed = true
	}
	if s.Period == "" {
		s.Period = constants.PeriodMonthly
		changed = true
	}
	if s.DisplayCurrency == "" {
		s.DisplayCurrency = s.BaseCurrency
		changed = true
	}
	if s.Allocations == (Allocations{}) {
		s.Allocations = DefaultAllocations()
		changed = true
	}
	if s.UpdatedAt == 0 {
		s.UpdatedAt = nowMs
		changed = true
	}
	return changed
}

func (s Settings) Clone() Settings {
	c := s
	if s.EnabledSavings != nil {
		es := *s.EnabledSavings
		c.EnabledSavings = &es
	}
	return c
}
