package storage

import (
	"context"
	"database/sql"
	"errors"

	"freelance-ledger/internal/ledger"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

var _ ledger.Store = (*DB)(nil)

// DB wraps a sql.DB connection to a SQLite file.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serializes writes.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			external_id TEXT UNIQUE NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS receipts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			storage_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			size INTEGER NOT NULL,
			uploaded_at DATETIME NOT NULL,
			expense_id INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			receipt_id INTEGER,
			date TEXT NOT NULL,
			amount REAL NOT NULL,
			category_id TEXT NOT NULL,
			vendor TEXT NOT NULL,
			description TEXT,
			purpose TEXT,
			payment_method_id TEXT,
			tax_rate REAL,
			invoice_number TEXT,
			invoice_date TEXT,
			tax_amount REAL,
			tax_excluded_amount REAL,
			project_code TEXT,
			is_deductible BOOLEAN,
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS incomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			date TEXT NOT NULL,
			amount REAL NOT NULL,
			category_id TEXT NOT NULL,
			client TEXT NOT NULL,
			description TEXT,
			project_name TEXT,
			payment_method_id TEXT,
			withholding BOOLEAN,
			withholding_amount REAL,
			withholding_rate REAL,
			invoice_number TEXT,
			invoice_issued BOOLEAN,
			invoice_date TEXT,
			tax_rate REAL,
			tax_amount REAL,
			tax_excluded_amount REAL,
			project_code TEXT,
			status TEXT NOT NULL,
			received_date TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
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

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

// noRows turns sql.ErrNoRows into the (nil, nil) lookup contract.
func noRows[T any](v *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// dateBounds is the WHERE fragment shared by the by-user listings.
const dateBounds = `(? = '' OR date >= ?) AND (? = '' OR date <= ?)`
