package storage

import (
	"context"

	"freelance-ledger/internal/models"
)

// InsertReceipt inserts receipt metadata and sets its ID.
func (db *DB) InsertReceipt(ctx context.Context, r *models.Receipt) error {
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO receipts (user_id, storage_id, file_name, mime_type, size, uploaded_at, expense_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.StorageID, r.FileName, r.MimeType, r.Size, r.UploadedAt, r.ExpenseID,
	)
	if err != nil {
		return err
	}
	r.ID, err = result.LastInsertId()
	return err
}

// Receipt retrieves receipt metadata by ID.
func (db *DB) Receipt(ctx context.Context, id int64) (*models.Receipt, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT id, user_id, storage_id, file_name, mime_type, size, uploaded_at, expense_id FROM receipts WHERE id = ?",
		id,
	)
	var r models.Receipt
	err := row.Scan(&r.ID, &r.UserID, &r.StorageID, &r.FileName, &r.MimeType, &r.Size, &r.UploadedAt, &r.ExpenseID)
	return noRows(&r, err)
}

// SetReceiptExpense sets or clears the receipt's expense back-reference.
func (db *DB) SetReceiptExpense(ctx context.Context, receiptID int64, expenseID *int64) error {
	_, err := db.conn.ExecContext(ctx, "UPDATE receipts SET expense_id = ? WHERE id = ?", expenseID, receiptID)
	return err
}
