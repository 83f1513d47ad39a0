package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"freelance-ledger/internal/models"
)

const expenseColumns = `id, user_id, receipt_id, date, amount, category_id, vendor, description,
	purpose, payment_method_id, tax_rate, invoice_number, invoice_date, tax_amount,
	tax_excluded_amount, project_code, is_deductible, status, created_at, updated_at`

const incomeColumns = `id, user_id, date, amount, category_id, client, description, project_name,
	payment_method_id, withholding, withholding_amount, withholding_rate, invoice_number,
	invoice_issued, invoice_date, tax_rate, tax_amount, tax_excluded_amount, project_code,
	status, received_date, created_at, updated_at`

const dateBounds = `($2 = '' OR date >= $2) AND ($3 = '' OR date <= $3)`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var e models.Expense
	err := row.Scan(
		&e.ID, &e.UserID, &e.ReceiptID, &e.Date, &e.Amount, &e.CategoryID, &e.Vendor, &e.Description,
		&e.Purpose, &e.PaymentMethodID, &e.TaxRate, &e.InvoiceNumber, &e.InvoiceDate, &e.TaxAmount,
		&e.TaxExcludedAmount, &e.ProjectCode, &e.IsDeductible, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func scanIncome(row pgx.Row) (models.Income, error) {
	var in models.Income
	err := row.Scan(
		&in.ID, &in.UserID, &in.Date, &in.Amount, &in.CategoryID, &in.Client, &in.Description, &in.ProjectName,
		&in.PaymentMethodID, &in.Withholding, &in.WithholdingAmount, &in.WithholdingRate, &in.InvoiceNumber,
		&in.InvoiceIssued, &in.InvoiceDate, &in.TaxRate, &in.TaxAmount, &in.TaxExcludedAmount, &in.ProjectCode,
		&in.Status, &in.ReceivedDate, &in.CreatedAt, &in.UpdatedAt,
	)
	return in, err
}

func (s *Store) InsertExpense(ctx context.Context, e *models.Expense) error {
	return s.pool.QueryRow(ctx, `INSERT INTO expenses (
			user_id, receipt_id, date, amount, category_id, vendor, description, purpose,
			payment_method_id, tax_rate, invoice_number, invoice_date, tax_amount,
			tax_excluded_amount, project_code, is_deductible, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id`,
		e.UserID, e.ReceiptID, e.Date, e.Amount, e.CategoryID, e.Vendor, e.Description, e.Purpose,
		e.PaymentMethodID, e.TaxRate, e.InvoiceNumber, e.InvoiceDate, e.TaxAmount,
		e.TaxExcludedAmount, e.ProjectCode, e.IsDeductible, e.Status, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (s *Store) Expense(ctx context.Context, id int64) (*models.Expense, error) {
	e, err := scanExpense(s.pool.QueryRow(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = $1", id))
	return noRows(&e, err)
}

func (s *Store) UpdateExpense(ctx context.Context, e *models.Expense) error {
	_, err := s.pool.Exec(ctx, `UPDATE expenses SET
			receipt_id = $1, date = $2, amount = $3, category_id = $4, vendor = $5, description = $6,
			purpose = $7, payment_method_id = $8, tax_rate = $9, invoice_number = $10, invoice_date = $11,
			tax_amount = $12, tax_excluded_amount = $13, project_code = $14, is_deductible = $15,
			status = $16, updated_at = $17
		WHERE id = $18`,
		e.ReceiptID, e.Date, e.Amount, e.CategoryID, e.Vendor, e.Description,
		e.Purpose, e.PaymentMethodID, e.TaxRate, e.InvoiceNumber, e.InvoiceDate,
		e.TaxAmount, e.TaxExcludedAmount, e.ProjectCode, e.IsDeductible,
		e.Status, e.UpdatedAt, e.ID,
	)
	return err
}

func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	return err
}

func (s *Store) ExpensesByUser(ctx context.Context, userID int64, from, to string) ([]models.Expense, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = $1 AND "+dateBounds+" ORDER BY id",
		userID, from, to,
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

func (s *Store) InsertIncome(ctx context.Context, in *models.Income) error {
	return s.pool.QueryRow(ctx, `INSERT INTO incomes (
			user_id, date, amount, category_id, client, description, project_name,
			payment_method_id, withholding, withholding_amount, withholding_rate, invoice_number,
			invoice_issued, invoice_date, tax_rate, tax_amount, tax_excluded_amount, project_code,
			status, received_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id`,
		in.UserID, in.Date, in.Amount, in.CategoryID, in.Client, in.Description, in.ProjectName,
		in.PaymentMethodID, in.Withholding, in.WithholdingAmount, in.WithholdingRate, in.InvoiceNumber,
		in.InvoiceIssued, in.InvoiceDate, in.TaxRate, in.TaxAmount, in.TaxExcludedAmount, in.ProjectCode,
		in.Status, in.ReceivedDate, in.CreatedAt, in.UpdatedAt,
	).Scan(&in.ID)
}

func (s *Store) Income(ctx context.Context, id int64) (*models.Income, error) {
	in, err := scanIncome(s.pool.QueryRow(ctx, "SELECT "+incomeColumns+" FROM incomes WHERE id = $1", id))
	return noRows(&in, err)
}

func (s *Store) UpdateIncome(ctx context.Context, in *models.Income) error {
	_, err := s.pool.Exec(ctx, `UPDATE incomes SET
			date = $1, amount = $2, category_id = $3, client = $4, description = $5, project_name = $6,
			payment_method_id = $7, withholding = $8, withholding_amount = $9, withholding_rate = $10,
			invoice_number = $11, invoice_issued = $12, invoice_date = $13, tax_rate = $14, tax_amount = $15,
			tax_excluded_amount = $16, project_code = $17, status = $18, received_date = $19, updated_at = $20
		WHERE id = $21`,
		in.Date, in.Amount, in.CategoryID, in.Client, in.Description, in.ProjectName,
		in.PaymentMethodID, in.Withholding, in.WithholdingAmount, in.WithholdingRate,
		in.InvoiceNumber, in.InvoiceIssued, in.InvoiceDate, in.TaxRate, in.TaxAmount,
		in.TaxExcludedAmount, in.ProjectCode, in.Status, in.ReceivedDate, in.UpdatedAt,
		in.ID,
	)
	return err
}

func (s *Store) DeleteIncome(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM incomes WHERE id = $1", id)
	return err
}

func (s *Store) IncomesByUser(ctx context.Context, userID int64, from, to string) ([]models.Income, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+incomeColumns+" FROM incomes WHERE user_id = $1 AND "+dateBounds+" ORDER BY id",
		userID, from, to,
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

func (s *Store) InsertReceipt(ctx context.Context, r *models.Receipt) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO receipts (user_id, storage_id, file_name, mime_type, size, uploaded_at, expense_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		r.UserID, r.StorageID, r.FileName, r.MimeType, r.Size, r.UploadedAt, r.ExpenseID,
	).Scan(&r.ID)
}

func (s *Store) Receipt(ctx context.Context, id int64) (*models.Receipt, error) {
	var r models.Receipt
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, storage_id, file_name, mime_type, size, uploaded_at, expense_id
		FROM receipts WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.UserID, &r.StorageID, &r.FileName, &r.MimeType, &r.Size, &r.UploadedAt, &r.ExpenseID)
	return noRows(&r, err)
}

func (s *Store) SetReceiptExpense(ctx context.Context, receiptID int64, expenseID *int64) error {
	_, err := s.pool.Exec(ctx, "UPDATE receipts SET expense_id = $1 WHERE id = $2", expenseID, receiptID)
	return err
}
