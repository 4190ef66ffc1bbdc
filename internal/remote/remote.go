// Package remote holds the authoritative per-user copy of the ledger that
// every replica synchronizes with.
package remote

import (
	"context"
	"errors"

	"github.com/hance08/leaf/internal/model"
)

var (
	ErrNotFound     = errors.New("remote record not found")
	ErrTransport    = errors.New("remote store unreachable")
	ErrUnauthorized = errors.New("remote store rejected credentials")
	ErrForbidden    = errors.New("access to another user's data is not allowed")
)

// SettingsRow is the remote settings singleton of one user.
type SettingsRow struct {
	Settings  model.Settings `json:"settings"`
	UpdatedAt int64          `json:"updatedAt"`
}

// TransactionRow is one remote transaction of one user. UpdatedAt is the
// authoritative timestamp; it always equals Transaction.UpdatedAt on write.
type TransactionRow struct {
	Transaction model.Transaction `json:"transaction"`
	UpdatedAt   int64             `json:"updatedAt"`
}

// Store is scoped strictly by user id: no call ever reads or writes rows of
// a user other than the one passed in.
type Store interface {
	// SelectSettings returns ErrNotFound when the user has no settings yet.
	SelectSettings(ctx context.Context, userID string) (*SettingsRow, error)
	SelectTransactions(ctx context.Context, userID string) ([]TransactionRow, error)
	UpsertSettings(ctx context.Context, userID string, settings model.Settings, updatedAt int64) error
	UpsertTransactions(ctx context.Context, userID string, rows []TransactionRow) error
}

// NewTransactionRow wraps tx with its own UpdatedAt.
func NewTransactionRow(tx model.Transaction) TransactionRow {
	return TransactionRow{Transaction: tx.Clone(), UpdatedAt: tx.UpdatedAt}
}
