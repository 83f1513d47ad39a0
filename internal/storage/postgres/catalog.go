package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"freelance-ledger/internal/models"
)

func (s *Store) ExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT category_id, name, description, tax_deductible, sort_order
		FROM expense_categories ORDER BY sort_order, category_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExpenseCategory, error) {
		var c models.ExpenseCategory
		err := row.Scan(&c.CategoryID, &c.Name, &c.Description, &c.TaxDeductible, &c.SortOrder)
		return c, err
	})
}

func (s *Store) IncomeCategories(ctx context.Context) ([]models.IncomeCategory, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT category_id, name, description, withholding, sort_order
		FROM income_categories ORDER BY sort_order, category_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.IncomeCategory, error) {
		var c models.IncomeCategory
		err := row.Scan(&c.CategoryID, &c.Name, &c.Description, &c.Withholding, &c.SortOrder)
		return c, err
	})
}

func (s *Store) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT method_id, name, type, sort_order FROM payment_methods ORDER BY sort_order, method_id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PaymentMethod, error) {
		var m models.PaymentMethod
		err := row.Scan(&m.MethodID, &m.Name, &m.Type, &m.SortOrder)
		return m, err
	})
}

// The seed inserts run as one batch inside a transaction.

func (s *Store) InsertExpenseCategories(ctx context.Context, cs []models.ExpenseCategory) error {
	batch := &pgx.Batch{}
	for _, c := range cs {
		batch.Queue(`INSERT INTO expense_categories (category_id, name, description, tax_deductible, sort_order)
			VALUES ($1, $2, $3, $4, $5)`, c.CategoryID, c.Name, c.Description, c.TaxDeductible, c.SortOrder)
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) InsertIncomeCategories(ctx context.Context, cs []models.IncomeCategory) error {
	batch := &pgx.Batch{}
	for _, c := range cs {
		batch.Queue(`INSERT INTO income_categories (category_id, name, description, withholding, sort_order)
			VALUES ($1, $2, $3, $4, $5)`, c.CategoryID, c.Name, c.Description, c.Withholding, c.SortOrder)
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) InsertPaymentMethods(ctx context.Context, ms []models.PaymentMethod) error {
	batch := &pgx.Batch{}
	for _, m := range ms {
		batch.Queue(`INSERT INTO payment_methods (method_id, name, type, sort_order)
			VALUES ($1, $2, $3, $4)`, m.MethodID, m.Name, m.Type, m.SortOrder)
	}
	return s.sendBatch(ctx, batch)
}

func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
}
