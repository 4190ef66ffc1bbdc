package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hance08/leaf/internal/constants"
	"github.com/hance08/leaf/internal/model"
)

func (s *Store) GetSettings() (*model.Settings, error) {
	var (
		st          model.Settings
		enabledJSON string
		allocJSON   string
	)
	err := s.db.QueryRow(`
        SELECT base_currency, display_currency, period, name, theme,
               enabled_savings, cycle_start, allocations, created_at, updated_at
        FROM settings
        WHERE id = ?
    `, constants.SettingsKey).Scan(
		&st.BaseCurrency,
		&st.DisplayCurrency,
		&st.Period,
		&st.Name,
		&st.Theme,
		&enabledJSON,
		&st.CycleStart,
		&allocJSON,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("settings: %w", ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	if enabledJSON != "" && enabledJSON != "null" {
		st.EnabledSavings = &model.EnabledSavings{}
		if err := json.Unmarshal([]byte(enabledJSON), st.EnabledSavings); err != nil {
			return nil, fmt.Errorf("failed to decode enabled savings: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(allocJSON), &st.Allocations); err != nil {
		return nil, fmt.Errorf("failed to decode allocations: %w", err)
	}
	return &st, nil
}

// PutSettings replaces the singleton row.
func (s *Store) PutSettings(st *model.Settings) error {
	enabledJSON, err := json.Marshal(st.EnabledSavings)
	if err != nil {
		return fmt.Errorf("failed to encode enabled savings: %w", err)
	}
	allocJSON, err := json.Marshal(st.Allocations)
	if err != nil {
		return fmt.Errorf("failed to encode allocations: %w", err)
	}

	_, err = s.db.Exec(`
        INSERT INTO settings (id, base_currency, display_currency, period, name, theme,
                              enabled_savings, cycle_start, allocations, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            base_currency = excluded.base_currency,
            display_currency = excluded.display_currency,
            period = excluded.period,
            name = excluded.name,
            theme = excluded.theme,
            enabled_savings = excluded.enabled_savings,
            cycle_start = excluded.cycle_start,
            allocations = excluded.allocations,
            created_at = excluded.created_at,
            updated_at = excluded.updated_at
    `,
		constants.SettingsKey,
		st.BaseCurrency,
		st.DisplayCurrency,
		st.Period,
		st.Name,
		st.Theme,
		string(enabledJSON),
		st.CycleStart.String(),
		string(allocJSON),
		st.CreatedAt,
		st.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("failed to save settings", err)
	}
	return nil
}
