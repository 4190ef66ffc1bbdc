package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/date"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/store"
	"github.com/hance08/leaf/internal/validation"
)

var ErrNoMigrator = errors.New("base currency migration is not available")

type SettingsService struct {
	repo     store.Repository
	migrator BaseMigrator
	config   Config
	now      func() time.Time
}

func NewSettingsService(repo store.Repository, migrator BaseMigrator, cfg Config) *SettingsService {
	return &SettingsService{repo: repo, migrator: migrator, config: cfg, now: time.Now}
}

// SettingsPatch holds the fields to change; nil fields are left alone.
// BaseCurrency is not here: it only changes through ChangeBaseCurrency.
type SettingsPatch struct {
	DisplayCurrency *string
	Period          *string
	Name            *string
	Theme           *string
	EnabledSavings  *model.EnabledSavings
	CycleStart      *date.Date
	Allocations     *model.Allocations
}

// Load returns the settings, creating defaults on first run and filling
// fields missing from older records.
func (ss *SettingsService) Load() (*model.Settings, error) {
	nowMs := ss.now().UnixMilli()
	s, err := ss.repo.GetSettings()
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		s = model.DefaultSettings(validation.NormalizeCurrency(ss.config.DefaultCurrency), nowMs)
		if ss.config.DefaultPeriod == constants.PeriodWeekly {
			s.Period = constants.PeriodWeekly
		}
		if err := ss.repo.PutSettings(s); err != nil {
			return nil, fmt.Errorf("failed to save default settings: %w", err)
		}
		return s, nil
	}

	if s.EnsureDefaults(nowMs) {
		s.UpdatedAt = nextTimestamp(ss.now, s.UpdatedAt)
		if err := ss.repo.PutSettings(s); err != nil {
			return nil, fmt.Errorf("failed to save settings: %w", err)
		}
	}
	return s, nil
}

func (ss *SettingsService) Update(patch SettingsPatch) (*model.Settings, error) {
	s, err := ss.Load()
	if err != nil {
		return nil, err
	}

	if patch.DisplayCurrency != nil {
		code := validation.NormalizeCurrency(*patch.DisplayCurrency)
		if err := validation.ValidateCurrency(code); err != nil {
			return nil, err
		}
		s.DisplayCurrency = code
	}
	if patch.Period != nil {
		switch *patch.Period {
		case constants.PeriodWeekly, constants.PeriodMonthly:
			s.Period = *patch.Period
		default:
			return nil, fmt.Errorf("period must be %s or %s", constants.PeriodWeekly, constants.PeriodMonthly)
		}
	}
	if patch.Name != nil {
		if len(*patch.Name) > constants.MaxTextLen {
			return nil, fmt.Errorf("name too long (max %d characters)", constants.MaxTextLen)
		}
		s.Name = *patch.Name
	}
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}
	if patch.EnabledSavings != nil {
		es := *patch.EnabledSavings
		s.EnabledSavings = &es
	}
	if patch.CycleStart != nil {
		s.CycleStart = *patch.CycleStart
	}
	if patch.Allocations != nil {
		s.Allocations = *patch.Allocations
	}

	if patch.Allocations != nil || patch.EnabledSavings != nil {
		if err := validation.ValidateAllocations(s.Allocations, s.EnabledSavings); err != nil {
			return nil, err
		}
	}

	s.UpdatedAt = nextTimestamp(ss.now, s.UpdatedAt)
	if err := ss.repo.PutSettings(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ChangeBaseCurrency converts every stored amount into newBase.
func (ss *SettingsService) ChangeBaseCurrency(ctx context.Context, newBase string) (*currency.MigrateResult, error) {
	newBase = validation.NormalizeCurrency(newBase)
	if err := validation.ValidateCurrency(newBase); err != nil {
		return nil, err
	}
	if ss.migrator == nil {
		return nil, ErrNoMigrator
	}
	s, err := ss.Load()
	if err != nil {
		return nil, err
	}
	return ss.migrator.Migrate(ctx, s.BaseCurrency, newBase)
}
