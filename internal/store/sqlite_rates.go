package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hance08/leaf/internal/model"
)

func scanRates(row rowScanner) (*model.RateRecord, error) {
	r := &model.RateRecord{}
	var ratesJSON string
	if err := row.Scan(&r.Base, &ratesJSON, &r.FetchedAt, &r.Source, &r.Date); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ratesJSON), &r.Rates); err != nil {
		return nil, fmt.Errorf("failed to decode rates for %s: %w", r.Base, err)
	}
	return r, nil
}

func (s *Store) GetRates(base string) (*model.RateRecord, error) {
	row := s.db.QueryRow(`
        SELECT base, rates, fetched_at, source, rate_date
        FROM rates
        WHERE base = ?
    `, base)
	r, err := scanRates(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rates for %s: %w", base, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	return r, nil
}

func (s *Store) ListRates() ([]*model.RateRecord, error) {
	rows, err := s.db.Query(`SELECT base, rates, fetched_at, source, rate_date FROM rates ORDER BY base`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	var records []*model.RateRecord
	for rows.Next() {
		r, err := scanRates(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) PutRates(r *model.RateRecord) error {
	ratesJSON, err := json.Marshal(r.Rates)
	if err != nil {
		return fmt.Errorf("failed to encode rates: %w", err)
	}
	_, err = s.db.Exec(`
        INSERT INTO rates (base, rates, fetched_at, source, rate_date)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(base) DO UPDATE SET
            rates = excluded.rates,
            fetched_at = excluded.fetched_at,
            source = excluded.source,
            rate_date = excluded.rate_date
    `, r.Base, string(ratesJSON), r.FetchedAt, r.Source, r.Date)
	if err != nil {
		return mapWriteErr("failed to save rates", err)
	}
	return nil
}
