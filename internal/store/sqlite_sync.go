package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetWatermark returns the last successful sync time for userID, or 0 if the
// replica has never synchronized with that account.
func (s *Store) GetWatermark(userID string) (int64, error) {
	var ts int64
	err := s.db.QueryRow(`SELECT watermark FROM sync_state WHERE user_id = ?`, userID).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query watermark: %w", err)
	}
	return ts, nil
}

// SetWatermark never moves the watermark backwards.
func (s *Store) SetWatermark(userID string, ts int64) error {
	_, err := s.db.Exec(`
        INSERT INTO sync_state (user_id, watermark)
        VALUES (?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            watermark = MAX(sync_state.watermark, excluded.watermark)
    `, userID, ts)
	if err != nil {
		return mapWriteErr("failed to save watermark", err)
	}
	return nil
}
