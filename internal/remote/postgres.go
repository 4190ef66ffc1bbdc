package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hance08/leaf/internal/model"
	"github.com/lib/pq"
)

// PostgresMigrationsDir is where the remote schema lives inside the
// migrations FS.
const PostgresMigrationsDir = "migrations/postgres"

// Postgres is a Store backed by PostgreSQL. Rows are JSONB payloads keyed by
// (user_id, id).
type Postgres struct {
	db *sql.DB
}

func NewPostgres(ctx context.Context, dsn string, migrationsFS fs.FS) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("can not open remote database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	if err := runPostgresMigrations(db, migrationsFS); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func runPostgresMigrations(db *sql.DB, migrationsFS fs.FS) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to set up migrate driver : %w", err)
	}
	sourceDriver, err := iofs.New(migrationsFS, PostgresMigrationsDir)
	if err != nil {
		return fmt.Errorf("failed to create iofs source driver : %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to set up migrate instance : %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migration(up) : %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) SelectSettings(ctx context.Context, userID string) (*SettingsRow, error) {
	var (
		payload []byte
		row     SettingsRow
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT data, updated_at FROM remote_settings WHERE user_id = $1`, userID,
	).Scan(&payload, &row.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, mapPostgresErr("select settings", err)
	}
	if err := json.Unmarshal(payload, &row.Settings); err != nil {
		return nil, fmt.Errorf("failed to decode remote settings: %w", err)
	}
	return &row, nil
}

func (p *Postgres) SelectTransactions(ctx context.Context, userID string) ([]TransactionRow, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT data, updated_at
        FROM remote_transactions
        WHERE user_id = $1
        ORDER BY id
    `, userID)
	if err != nil {
		return nil, mapPostgresErr("select transactions", err)
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var (
			payload []byte
			row     TransactionRow
		)
		if err := rows.Scan(&payload, &row.UpdatedAt); err != nil {
			return nil, mapPostgresErr("scan transaction", err)
		}
		if err := json.Unmarshal(payload, &row.Transaction); err != nil {
			return nil, fmt.Errorf("failed to decode remote transaction: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresErr("iterate transactions", err)
	}
	return out, nil
}

func (p *Postgres) UpsertSettings(ctx context.Context, userID string, settings model.Settings, updatedAt int64) error {
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
        INSERT INTO remote_settings (user_id, data, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET
            data = EXCLUDED.data,
            updated_at = EXCLUDED.updated_at
    `, userID, payload, updatedAt)
	if err != nil {
		return mapPostgresErr("upsert settings", err)
	}
	return nil
}

// UpsertTransactions writes every row in a single database transaction.
func (p *Postgres) UpsertTransactions(ctx context.Context, userID string, rows []TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return mapPostgresErr("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO remote_transactions (user_id, id, data, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, id) DO UPDATE SET
            data = EXCLUDED.data,
            updated_at = EXCLUDED.updated_at
    `)
	if err != nil {
		return mapPostgresErr("prepare upsert", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		payload, err := json.Marshal(row.Transaction)
		if err != nil {
			return fmt.Errorf("failed to encode transaction %s: %w", row.Transaction.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, userID, row.Transaction.ID, payload, row.UpdatedAt); err != nil {
			return mapPostgresErr(fmt.Sprintf("upsert transaction %s", row.Transaction.ID), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return mapPostgresErr("commit", err)
	}
	return nil
}

// mapPostgresErr keeps server-side errors as they are and classifies
// everything else (dial failures, dropped connections) as ErrTransport.
func mapPostgresErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s: %s (%s)", op, pqErr.Message, pqErr.Code.Name())
	}
	return fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
}
