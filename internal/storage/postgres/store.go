// Package postgres is the PostgreSQL implementation of ledger.Store, for
// deployments that outgrow a single SQLite file.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/models"
)

var _ ledger.Store = (*Store)(nil)

// Store keeps ledger rows in PostgreSQL through a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to connStr and creates the schema if needed.
func New(ctx context.Context, connStr string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		external_id TEXT UNIQUE NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS receipts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		storage_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		mime_type TEXT NOT NULL,
		size BIGINT NOT NULL,
		uploaded_at TIMESTAMPTZ NOT NULL,
		expense_id BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		receipt_id BIGINT,
		date TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		category_id TEXT NOT NULL,
		vendor TEXT NOT NULL,
		description TEXT,
		purpose TEXT,
		payment_method_id TEXT,
		tax_rate DOUBLE PRECISION,
		invoice_number TEXT,
		invoice_date TEXT,
		tax_amount DOUBLE PRECISION,
		tax_excluded_amount DOUBLE PRECISION,
		project_code TEXT,
		is_deductible BOOLEAN,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS incomes (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		date TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		category_id TEXT NOT NULL,
		client TEXT NOT NULL,
		description TEXT,
		project_name TEXT,
		payment_method_id TEXT,
		withholding BOOLEAN,
		withholding_amount DOUBLE PRECISION,
		withholding_rate DOUBLE PRECISION,
		invoice_number TEXT,
		invoice_issued BOOLEAN,
		invoice_date TEXT,
		tax_rate DOUBLE PRECISION,
		tax_amount DOUBLE PRECISION,
		tax_excluded_amount DOUBLE PRECISION,
		project_code TEXT,
		status TEXT NOT NULL,
		received_date TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS expense_categories (
		category_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		tax_deductible BOOLEAN NOT NULL,
		sort_order INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS income_categories (
		category_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		withholding BOOLEAN NOT NULL,
		sort_order INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payment_methods (
		method_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		sort_order INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user_category ON expenses(user_id, category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_user_status ON expenses(user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_incomes_user ON incomes(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_incomes_user_date ON incomes(user_id, date)`,
	`CREATE INDEX IF NOT EXISTS idx_incomes_user_category ON incomes(user_id, category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_incomes_user_status ON incomes(user_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_incomes_user_client ON incomes(user_id, client)`,
	`CREATE INDEX IF NOT EXISTS idx_receipts_user ON receipts(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_receipts_expense ON receipts(expense_id)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := s.pool.Exec(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Truncate empties every table. Tests use it between cases.
func (s *Store) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE receipts, expenses, incomes, expense_categories,
		income_categories, payment_methods, users RESTART IDENTITY CASCADE`)
	return err
}

func noRows[T any](v *T, err error) (*T, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO users (external_id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		u.ExternalID, u.Email, u.Name, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE users SET email = $1, name = $2, updated_at = $3 WHERE id = $4`,
		u.Email, u.Name, u.UpdatedAt, u.ID,
	)
	return err
}

func (s *Store) UserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, external_id, email, name, created_at, updated_at FROM users WHERE external_id = $1`,
		externalID,
	).Scan(&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	return noRows(&u, err)
}
