package storage

import (
	"context"

	"freelance-ledger/internal/models"
)

const incomeColumns = `id, user_id, date, amount, category_id, client, description, project_name,
	payment_method_id, withholding, withholding_amount, withholding_rate, invoice_number,
	invoice_issued, invoice_date, tax_rate, tax_amount, tax_excluded_amount, project_code,
	status, received_date, created_at, updated_at`

func scanIncome(s scanner) (models.Income, error) {
	var in models.Income
	err := s.Scan(
		&in.ID, &in.UserID, &in.Date, &in.Amount, &in.CategoryID, &in.Client, &in.Description, &in.ProjectName,
		&in.PaymentMethodID, &in.Withholding, &in.WithholdingAmount, &in.WithholdingRate, &in.InvoiceNumber,
		&in.InvoiceIssued, &in.InvoiceDate, &in.TaxRate, &in.TaxAmount, &in.TaxExcludedAmount, &in.ProjectCode,
		&in.Status, &in.ReceivedDate, &in.CreatedAt, &in.UpdatedAt,
	)
	return in, err
}

// InsertIncome inserts a new income and sets its ID.
func (db *DB) InsertIncome(ctx context.Context, in *models.Income) error {
	result, err := db.conn.ExecContext(ctx, `INSERT INTO incomes (
			user_id, date, amount, category_id, client, description, project_name,
			payment_method_id, withholding, withholding_amount, withholding_rate, invoice_number,
			invoice_issued, invoice_date, tax_rate, tax_amount, tax_excluded_amount, project_code,
			status, received_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.UserID, in.Date, in.Amount, in.CategoryID, in.Client, in.Description, in.ProjectName,
		in.PaymentMethodID, in.Withholding, in.WithholdingAmount, in.WithholdingRate, in.InvoiceNumber,
		in.InvoiceIssued, in.InvoiceDate, in.TaxRate, in.TaxAmount, in.TaxExcludedAmount, in.ProjectCode,
		in.Status, in.ReceivedDate, in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		return err
	}
	in.ID, err = result.LastInsertId()
	return err
}

// Income retrieves a single income by ID.
func (db *DB) Income(ctx context.Context, id int64) (*models.Income, error) {
	row := db.conn.QueryRowContext(ctx, "SELECT "+incomeColumns+" FROM incomes WHERE id = ?", id)
	in, err := scanIncome(row)
	return noRows(&in, err)
}

// UpdateIncome writes every mutable column of an income.
func (db *DB) UpdateIncome(ctx context.Context, in *models.Income) error {
	_, err := db.conn.ExecContext(ctx, `UPDATE incomes SET
			date = ?, amount = ?, category_id = ?, client = ?, description = ?, project_name = ?,
			payment_method_id = ?, withholding = ?, withholding_amount = ?, withholding_rate = ?,
			invoice_number = ?, invoice_issued = ?, invoice_date = ?, tax_rate = ?, tax_amount = ?,
			tax_excluded_amount = ?, project_code = ?, status = ?, received_date = ?, updated_at = ?
		WHERE id = ?`,
		in.Date, in.Amount, in.CategoryID, in.Client, in.Description, in.ProjectName,
		in.PaymentMethodID, in.Withholding, in.WithholdingAmount, in.WithholdingRate,
		in.InvoiceNumber, in.InvoiceIssued, in.InvoiceDate, in.TaxRate, in.TaxAmount,
		in.TaxExcludedAmount, in.ProjectCode, in.Status, in.ReceivedDate, in.UpdatedAt,
		in.ID,
	)
	return err
}

// DeleteIncome removes an income.
func (db *DB) DeleteIncome(ctx context.Context, id int64) error {
	_, err := db.conn.ExecContext(ctx, "DELETE FROM incomes WHERE id = ?", id)
	return err
}

// IncomesByUser lists a user's incomes in insertion order, optionally
// bounded by date.
func (db *DB) IncomesByUser(ctx context.Context, userID int64, from, to string) ([]models.Income, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+incomeColumns+" FROM incomes WHERE user_id = ? AND "+dateBounds+" ORDER BY id",
		userID, from, from, to, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incomes := []models.Income{}
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, in)
	}
	return incomes, rows.Err()
}
