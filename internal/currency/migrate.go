// Package currency rewrites the ledger into a new base currency and formats
// money for display.
package currency

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/rates"
	"github.com/hance08/leaf/internal/store"
	"github.com/hance08/leaf/internal/syncer"
	"github.com/shopspring/decimal"
)

var (
	ErrRateUnavailable  = errors.New("exchange rate unavailable")
	ErrPartialMigration = errors.New("base currency migration incomplete")
)

// PartialMigrationError reports a store failure part way through rewriting
// transactions. Migrated records stay rewritten; running Migrate again with
// the same currencies finishes the rest.
type PartialMigrationError struct {
	Migrated  int
	Remaining int
	Err       error
}

func (e *PartialMigrationError) Error() string {
	return fmt.Sprintf("migrated %d transactions, %d remaining: %v", e.Migrated, e.Remaining, e.Err)
}

func (e *PartialMigrationError) Unwrap() error { return e.Err }

func (e *PartialMigrationError) Is(target error) bool { return target == ErrPartialMigration }

// RateSource supplies conversion factors and refreshes cached rates.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
	Refresh(ctx context.Context, base string) (*rates.Quote, error)
}

type MigrateResult struct {
	OldBase  string
	NewBase  string
	Factor   decimal.Decimal
	Migrated int
	Skipped  int
	NoOp     bool
	// RatesWarning is set when rates for the new base could not be
	// refreshed. The migration itself succeeded.
	RatesWarning error
}

type Manager struct {
	local  store.Repository
	rates  RateSource
	gate   *syncer.Gate
	logger *slog.Logger
	now    func() time.Time
}

// NewManager shares gate with the sync engine so a migration never runs
// while a sync or resolve is in flight.
func NewManager(local store.Repository, rs RateSource, gate *syncer.Gate, logger *slog.Logger) *Manager {
	if gate == nil {
		gate = &syncer.Gate{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{local: local, rates: rs, gate: gate, logger: logger, now: time.Now}
}

// Migrate converts every transaction denominated in oldBase into newBase and
// makes newBase the ledger base currency. Each rewritten record gets a fresh
// UpdatedAt so the change replicates on the next sync.
func (m *Manager) Migrate(ctx context.Context, oldBase, newBase string) (*MigrateResult, error) {
	res := &MigrateResult{OldBase: oldBase, NewBase: newBase, Factor: decimal.NewFromInt(1)}
	if oldBase == newBase {
		res.NoOp = true
		return res, nil
	}

	release, err := m.gate.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	factor, err := m.rates.Rate(ctx, oldBase, newBase)
	if err != nil {
		return nil, fmt.Errorf("%w: %s→%s: %w", ErrRateUnavailable, oldBase, newBase, err)
	}
	if !factor.IsPositive() {
		return nil, fmt.Errorf("%w: %s→%s rate is %s", ErrRateUnavailable, oldBase, newBase, factor)
	}
	res.Factor = factor

	all, err := m.local.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	var todo []*model.Transaction
	for _, tx := range all {
		if tx.DenominatedIn(oldBase, oldBase) {
			todo = append(todo, tx)
		} else {
			res.Skipped++
		}
	}

	for i, tx := range todo {
		if err := ctx.Err(); err != nil {
			if i == 0 {
				return nil, fmt.Errorf("migration cancelled: %w", err)
			}
			return nil, &PartialMigrationError{Migrated: i, Remaining: len(todo) - i, Err: err}
		}
		tx.AmountBase = tx.AmountBase.Mul(factor)
		tx.Currency = newBase
		tx.UpdatedAt = model.NextTimestamp(m.now().UnixMilli(), tx.UpdatedAt)
		if err := m.local.PutTransaction(tx); err != nil {
			m.logger.Error("migration stopped", "migrated", i, "remaining", len(todo)-i, "error", err)
			return nil, &PartialMigrationError{Migrated: i, Remaining: len(todo) - i, Err: err}
		}
		res.Migrated++
	}

	if err := m.switchBase(oldBase, newBase); err != nil {
		return nil, err
	}

	if _, err := m.rates.Refresh(ctx, newBase); err != nil {
		m.logger.Warn("could not refresh rates for new base", "base", newBase, "error", err)
		res.RatesWarning = err
	}

	m.logger.Info("base currency migrated",
		"from", oldBase, "to", newBase, "factor", factor.String(), "migrated", res.Migrated, "skipped", res.Skipped)
	return res, nil
}

func (m *Manager) switchBase(oldBase, newBase string) error {
	nowMs := m.now().UnixMilli()
	settings, err := m.local.GetSettings()
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		settings = model.DefaultSettings(oldBase, nowMs)
	}
	settings.BaseCurrency = newBase
	if settings.DisplayCurrency == oldBase || settings.DisplayCurrency == "" {
		settings.DisplayCurrency = newBase
	}
	settings.UpdatedAt = model.NextTimestamp(nowMs, settings.UpdatedAt)
	if err := m.local.PutSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
