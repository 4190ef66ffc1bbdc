package remote

import (
	"context"
	"sort"
	"sync"

	"github.com/hance08/leaf/internal/model"
)

// Memory is an in-process Store. It backs `leaf serve --store memory` and
// the sync tests.
type Memory struct {
	mu           sync.RWMutex
	settings     map[string]SettingsRow
	transactions map[string]map[string]TransactionRow
}

func NewMemory() *Memory {
	return &Memory{
		settings:     make(map[string]SettingsRow),
		transactions: make(map[string]map[string]TransactionRow),
	}
}

func (m *Memory) SelectSettings(ctx context.Context, userID string) (*SettingsRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.settings[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &SettingsRow{Settings: row.Settings.Clone(), UpdatedAt: row.UpdatedAt}, nil
}

// SelectTransactions returns rows ordered by id.
func (m *Memory) SelectTransactions(ctx context.Context, userID string) ([]TransactionRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]TransactionRow, 0, len(m.transactions[userID]))
	for _, row := range m.transactions[userID] {
		rows = append(rows, TransactionRow{Transaction: row.Transaction.Clone(), UpdatedAt: row.UpdatedAt})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Transaction.ID < rows[j].Transaction.ID })
	return rows, nil
}

func (m *Memory) UpsertSettings(ctx context.Context, userID string, settings model.Settings, updatedAt int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[userID] = SettingsRow{Settings: settings.Clone(), UpdatedAt: updatedAt}
	return nil
}

func (m *Memory) UpsertTransactions(ctx context.Context, userID string, rows []TransactionRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	userRows, ok := m.transactions[userID]
	if !ok {
		userRows = make(map[string]TransactionRow)
		m.transactions[userID] = userRows
	}
	for _, row := range rows {
		userRows[row.Transaction.ID] = TransactionRow{Transaction: row.Transaction.Clone(), UpdatedAt: row.UpdatedAt}
	}
	return nil
}
