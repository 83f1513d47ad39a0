package storage

import (
	"context"

	"freelance-ledger/internal/models"
)

const expenseColumns = `id, user_id, receipt_id, date, amount, category_id, vendor, description,
	purpose, payment_method_id, tax_rate, invoice_number, invoice_date, tax_amount,
	tax_excluded_amount, project_code, is_deductible, status, created_at, updated_at`

func scanExpense(s scanner) (models.Expense, error) {
	var e models.Expense
	err := s.Scan(
		&e.ID, &e.UserID, &e.ReceiptID, &e.Date, &e.Amount, &e.CategoryID, &e.Vendor, &e.Description,
		&e.Purpose, &e.PaymentMethodID, &e.TaxRate, &e.InvoiceNumber, &e.InvoiceDate, &e.TaxAmount,
		&e.TaxExcludedAmount, &e.ProjectCode, &e.IsDeductible, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// InsertExpense inserts a new expense and sets its ID.
func (db *DB) InsertExpense(ctx context.Context, e *models.Expense) error {
	result, err := db.conn.ExecContext(ctx, `INSERT INTO expenses (
			user_id, receipt_id, date, amount, category_id, vendor, description, purpose,
			payment_method_id, tax_rate, invoice_number, invoice_date, tax_amount,
			tax_excluded_amount, project_code, is_deductible, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.ReceiptID, e.Date, e.Amount, e.CategoryID, e.Vendor, e.Description, e.Purpose,
		e.PaymentMethodID, e.TaxRate, e.InvoiceNumber, e.InvoiceDate, e.TaxAmount,
		e.TaxExcludedAmount, e.ProjectCode, e.IsDeductible, e.Status, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	e.ID, err = result.LastInsertId()
	return err
}

// Expense retrieves a single expense by ID.
func (db *DB) Expense(ctx context.Context, id int64) (*models.Expense, error) {
	row := db.conn.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	return noRows(&e, err)
}

// UpdateExpense writes every mutable column of an expense.
func (db *DB) UpdateExpense(ctx context.Context, e *models.Expense) error {
	_, err := db.conn.ExecContext(ctx, `UPDATE expenses SET
			receipt_id = ?, date = ?, amount = ?, category_id = ?, vendor = ?, description = ?,
			purpose = ?, payment_method_id = ?, tax_rate = ?, invoice_number = ?, invoice_date = ?,
			tax_amount = ?, tax_excluded_amount = ?, project_code = ?, is_deductible = ?,
			status = ?, updated_at = ?
		WHERE id = ?`,
		e.ReceiptID, e.Date, e.Amount, e.CategoryID, e.Vendor, e.Description,
		e.Purpose, e.PaymentMethodID, e.TaxRate, e.InvoiceNumber, e.InvoiceDate,
		e.TaxAmount, e.TaxExcludedAmount, e.ProjectCode, e.IsDeductible,
		e.Status, e.UpdatedAt, e.ID,
	)
	return err
}

// DeleteExpense removes an expense.
func (db *DB) DeleteExpense(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	return err
}

// ExpensesByUser lists a user's expenses in insertion order, optionally
// bounded by date.
func (db *DB) ExpensesByUser(ctx context.Context, userID int64, from, to string) ([]models.Expense, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = ? AND "+dateBounds+" ORDER BY id",
		userID, from, from, to, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
