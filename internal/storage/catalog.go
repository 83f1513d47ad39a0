package storage

import (
	"context"
	"database/sql"

	"freelance-ledger/internal/models"
)

// ExpenseCategories lists expense categories by sort order.
func (db *DB) ExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT category_id, name, description, tax_deductible, sort_order FROM expense_categories ORDER BY sort_order, category_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ExpenseCategory{}
	for rows.Next() {
		var c models.ExpenseCategory
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Description, &c.TaxDeductible, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// IncomeCategories lists income categories by sort order.
func (db *DB) IncomeCategories(ctx context.Context) ([]models.IncomeCategory, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT category_id, name, description, withholding, sort_order FROM income_categories ORDER BY sort_order, category_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.IncomeCategory{}
	for rows.Next() {
		var c models.IncomeCategory
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Description, &c.Withholding, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PaymentMethods lists payment methods by sort order.
func (db *DB) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT method_id, name, type, sort_order FROM payment_methods ORDER BY sort_order, method_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PaymentMethod{}
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.MethodID, &m.Name, &m.Type, &m.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// InsertExpenseCategories inserts categories in one transaction.
func (db *DB) InsertExpenseCategories(ctx context.Context, cs []models.ExpenseCategory) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range cs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO expense_categories (category_id, name, description, tax_deductible, sort_order) VALUES (?, ?, ?, ?, ?)",
				c.CategoryID, c.Name, c.Description, c.TaxDeductible, c.SortOrder,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertIncomeCategories inserts categories in one transaction.
func (db *DB) InsertIncomeCategories(ctx context.Context, cs []models.IncomeCategory) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range cs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO income_categories (category_id, name, description, withholding, sort_order) VALUES (?, ?, ?, ?, ?)",
				c.CategoryID, c.Name, c.Description, c.Withholding, c.SortOrder,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertPaymentMethods inserts payment methods in one transaction.
func (db *DB) InsertPaymentMethods(ctx context.Context, ms []models.PaymentMethod) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		for _, m := range ms {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO payment_methods (method_id, name, type, sort_order) VALUES (?, ?, ?, ?)",
				m.MethodID, m.Name, m.Type, m.SortOrder,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
