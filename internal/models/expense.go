package models

import "time"

// Expense statuses. Any value may follow any other.
const (
	ExpenseDraft     = "draft"
	ExpenseConfirmed = "confirmed"
	ExpenseSubmitted = "submitted"
)

// Expense represents a business expense paid by the user.
type Expense struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	ReceiptID         *int64    `json:"receipt_id,omitempty"`
	Date              string    `json:"date"` // YYYY-MM-DD
	Amount            float64   `json:"amount"`
	CategoryID        string    `json:"category_id"`
	Vendor            string    `json:"vendor"`
	Description       *string   `json:"description,omitempty"`
	Purpose           *string   `json:"purpose,omitempty"`
	PaymentMethodID   *string   `json:"payment_method_id,omitempty"`
	TaxRate           *float64  `json:"tax_rate,omitempty"`
	InvoiceNumber     *string   `json:"invoice_number,omitempty"` // T + 13 digits
	InvoiceDate       *string   `json:"invoice_date,omitempty"`
	TaxAmount         *float64  `json:"tax_amount,omitempty"`
	TaxExcludedAmount *float64  `json:"tax_excluded_amount,omitempty"`
	ProjectCode       *string   `json:"project_code,omitempty"`
	IsDeductible      *bool     `json:"is_deductible,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ExpenseWithReceipt is an expense joined with its linked receipt, if any.
type ExpenseWithReceipt struct {
	Expense
	Receipt *Receipt `json:"receipt"`
}

func (e Expense) RecordDate() string         { return e.Date }
func (e Expense) RecordAmount() float64      { return e.Amount }
func (e Expense) RecordCategory() string     { return e.CategoryID }
func (e Expense) RecordStatus() string       { return e.Status }
func (e Expense) RecordCreatedAt() time.Time { return e.CreatedAt }
func (e Expense) Counterparty() string       { return e.Vendor }

// SearchFields lists the text matched by free-text search.
func (e Expense) SearchFields() []string {
	return compact(e.Vendor, e.Description, e.Purpose, e.InvoiceNumber)
}

// Deductible reports whether the expense counts against taxable income.
// An unset flag counts as deductible.
func (e Expense) Deductible() bool {
	return e.IsDeductible == nil || *e.IsDeductible
}

func compact(first string, rest ...*string) []string {
	fields := []string{first}
	for _, s := range rest {
		if s != nil && *s != "" {
			fields = append(fields, *s)
		}
	}
	return fields
}
