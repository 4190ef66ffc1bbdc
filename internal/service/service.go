package service

import (
	"context"
	"time"

	"github.com/hance08/leaf/internal/currency"
	"github.com/hance08/leaf/internal/model"
	"github.com/hance08/leaf/internal/store"
)

type Config struct {
	DefaultCurrency string
	DefaultPeriod   string
}

// BaseMigrator rewrites the ledger into a new base currency.
type BaseMigrator interface {
	Migrate(ctx context.Context, oldBase, newBase string) (*currency.MigrateResult, error)
}

type Service struct {
	Transaction *TransactionService
	Settings    *SettingsService
	Budget      *BudgetService
	Backup      *BackupService
}

func NewService(repo store.Repository, migrator BaseMigrator, cfg Config) *Service {
	settings := NewSettingsService(repo, migrator, cfg)
	return &Service{
		Transaction: NewTransactionService(repo, settings),
		Settings:    settings,
		Budget:      NewBudgetService(repo, settings),
		Backup:      NewBackupService(repo),
	}
}

// nextTimestamp returns now in milliseconds, strictly after prev so a local
// edit always reads as newer than the version it replaces.
func nextTimestamp(now func() time.Time, prev int64) int64 {
	return model.NextTimestamp(now().UnixMilli(), prev)
}
