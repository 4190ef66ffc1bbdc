package store

import "github.com/hance08/leaf/internal/model"

// Repository is the local replica: the settings singleton, the transaction
// collection, the per-user sync watermark and the exchange rate cache.
// Every write preserves UpdatedAt exactly as the caller set it.
type Repository interface {
	// Settings Operations
	GetSettings() (*model.Settings, error)
	PutSettings(s *model.Settings) error

	// Transaction Operations
	GetTransaction(id string) (*model.Transaction, error)
	ListTransactions() ([]*model.Transaction, error)
	PutTransaction(tx *model.Transaction) error

	// Sync Watermark Operations
	GetWatermark(userID string) (int64, error)
	SetWatermark(userID string, ts int64) error

	// Rate Cache Operations
	GetRates(base string) (*model.RateRecord, error)
	ListRates() ([]*model.RateRecord, error)
	PutRates(r *model.RateRecord) error

	ClearAll() error
	ExecTx(fn func(Repository) error) error
	Close() error
}
