package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/hance08/leaf/internal/model"
)

const transactionColumns = `id, type, date, amount_base, currency, category, source,
        description, note, income_bucket, funding_source, input_currency,
        deleted, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	tx := &model.Transaction{}
	var note sql.NullString
	err := row.Scan(
		&tx.ID,
		&tx.Type,
		&tx.Date,
		&tx.AmountBase,
		&tx.Currency,
		&tx.Category,
		&tx.Source,
		&tx.Description,
		&note,
		&tx.IncomeBucket,
		&tx.FundingSource,
		&tx.InputCurrency,
		&tx.Deleted,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if note.Valid {
		tx.Note = &note.String
	}
	return tx, nil
}

func (s *Store) GetTransaction(id string) (*model.Transaction, error) {
	row := s.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return tx, nil
}

// ListTransactions returns every record, tombstones included, newest first.
func (s *Store) ListTransactions() ([]*model.Transaction, error) {
	rows, err := s.db.Query(`
        SELECT ` + transactionColumns + `
        FROM transactions
        ORDER BY date DESC, created_at DESC, id
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// PutTransaction inserts or replaces a record keyed by ID.
func (s *Store) PutTransaction(tx *model.Transaction) error {
	var note sql.NullString
	if tx.Note != nil {
		note = sql.NullString{String: *tx.Note, Valid: true}
	}

	_, err := s.db.Exec(`
        INSERT INTO transactions (`+transactionColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            type = excluded.type,
            date = excluded.date,
            amount_base = excluded.amount_base,
            currency = excluded.currency,
            category = excluded.category,
            source = excluded.source,
            description = excluded.description,
            note = excluded.note,
            income_bucket = excluded.income_bucket,
            funding_source = excluded.funding_source,
            input_currency = excluded.input_currency,
            deleted = excluded.deleted,
            created_at = excluded.created_at,
            updated_at = excluded.updated_at
    `,
		tx.ID,
		tx.Type,
		tx.Date,
		tx.AmountBase.String(),
		tx.Currency,
		tx.Category,
		tx.Source,
		tx.Description,
		note,
		tx.IncomeBucket,
		tx.FundingSource,
		tx.InputCurrency,
		tx.Deleted,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr(fmt.Sprintf("failed to save transaction %s", tx.ID), err)
	}
	return nil
}
