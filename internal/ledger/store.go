package ledger

import (
	"context"

	"freelance-ledger/internal/models"
)

// Lookups by id return (nil, nil) when the row does not exist. Listing
// methods return rows in insertion order; empty from/to bounds are open.

// UserStore persists users keyed by external identity.
type UserStore interface {
	UserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	Expense(ctx context.Context, id int64) (*models.Expense, error)
	ExpensesByUser(ctx context.Context, userID int64, from, to string) ([]models.Expense, error)
	InsertExpense(ctx context.Context, e *models.Expense) error
	UpdateExpense(ctx context.Context, e *models.Expense) error
	DeleteExpense(ctx context.Context, id int64) error
}

// IncomeStore persists incomes.
type IncomeStore interface {
	Income(ctx context.Context, id int64) (*models.Income, error)
	IncomesByUser(ctx context.Context, userID int64, from, to string) ([]models.Income, error)
	InsertIncome(ctx context.Context, in *models.Income) error
	UpdateIncome(ctx context.Context, in *models.Income) error
	DeleteIncome(ctx context.Context, id int64) error
}

// ReceiptStore persists receipt metadata.
type ReceiptStore interface {
	Receipt(ctx context.Context, id int64) (*models.Receipt, error)
	InsertReceipt(ctx context.Context, r *models.Receipt) error
	// SetReceiptExpense sets or, with a nil expenseID, clears the back-reference.
	SetReceiptExpense(ctx context.Context, receiptID int64, expenseID *int64) error
}

// CatalogStore persists the global master data. Lists are ordered by
// sort order.
type CatalogStore interface {
	ExpenseCategories(ctx context.Context) ([]models.ExpenseCategory, error)
	IncomeCategories(ctx context.Context) ([]models.IncomeCategory, error)
	PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error)
	InsertExpenseCategories(ctx context.Context, cs []models.ExpenseCategory) error
	InsertIncomeCategories(ctx context.Context, cs []models.IncomeCategory) error
	InsertPaymentMethods(ctx context.Context, ms []models.PaymentMethod) error
}

// Store is everything the service needs from persistence.
type Store interface {
	UserStore
	ExpenseStore
	IncomeStore
	ReceiptStore
	CatalogStore
}

// BlobStore holds receipt files.
type BlobStore interface {
	UploadURL(ctx context.Context) (models.Upload, error)
	URL(ctx context.Context, storageID string) (string, error)
}
