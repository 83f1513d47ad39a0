package ledger

import (
	"freelance-ledger/internal/models"
	"freelance-ledger/internal/patch"
	"freelance-ledger/internal/query"
)

// ExpenseInput is a new expense. Date, Amount, CategoryID and Vendor are
// required; the HTTP layer enforces that before calling the service.
type ExpenseInput struct {
	ReceiptID       *int64   `json:"receipt_id"`
	Date            string   `json:"date"`
	Amount          float64  `json:"amount"`
	CategoryID      string   `json:"category_id"`
	Vendor          string   `json:"vendor"`
	Description     *string  `json:"description"`
	Purpose         *string  `json:"purpose"`
	PaymentMethodID *string  `json:"payment_method_id"`
	TaxRate         *float64 `json:"tax_rate"`
	InvoiceNumber   *string  `json:"invoice_number"`
	InvoiceDate     *string  `json:"invoice_date"`
	ProjectCode     *string  `json:"project_code"`
	IsDeductible    *bool    `json:"is_deductible"`
}

// IncomeInput is a new income. Date, Amount, CategoryID and Client are
// required.
type IncomeInput struct {
	Date              string   `json:"date"`
	Amount            float64  `json:"amount"`
	CategoryID        string   `json:"category_id"`
	Client            string   `json:"client"`
	Description       *string  `json:"description"`
	ProjectName       *string  `json:"project_name"`
	PaymentMethodID   *string  `json:"payment_method_id"`
	Withholding       *bool    `json:"withholding"`
	WithholdingAmount *float64 `json:"withholding_amount"`
	WithholdingRate   *float64 `json:"withholding_rate"`
	InvoiceNumber     *string  `json:"invoice_number"`
	InvoiceIssued     *bool    `json:"invoice_issued"`
	InvoiceDate       *string  `json:"invoice_date"`
	TaxRate           *float64 `json:"tax_rate"`
	ProjectCode       *string  `json:"project_code"`
	ReceivedDate      *string  `json:"received_date"`
}

// ExpensePatch is a partial expense update. Absent fields keep their value;
// null clears an optional field.
type ExpensePatch struct {
	Date            patch.Field[string]  `json:"date"`
	Amount          patch.Field[float64] `json:"amount"`
	CategoryID      patch.Field[string]  `json:"category_id"`
	Vendor          patch.Field[string]  `json:"vendor"`
	Description     patch.Field[string]  `json:"description"`
	Purpose         patch.Field[string]  `json:"purpose"`
	PaymentMethodID patch.Field[string]  `json:"payment_method_id"`
	TaxRate         patch.Field[float64] `json:"tax_rate"`
	InvoiceNumber   patch.Field[string]  `json:"invoice_number"`
	InvoiceDate     patch.Field[string]  `json:"invoice_date"`
	ProjectCode     patch.Field[string]  `json:"project_code"`
	IsDeductible    patch.Field[bool]    `json:"is_deductible"`
	Status          patch.Field[string]  `json:"status"`
}

// IncomePatch is a partial income update.
type IncomePatch struct {
	Date              patch.Field[string]  `json:"date"`
	Amount            patch.Field[float64] `json:"amount"`
	CategoryID        patch.Field[string]  `json:"category_id"`
	Client            patch.Field[string]  `json:"client"`
	Description       patch.Field[string]  `json:"description"`
	ProjectName       patch.Field[string]  `json:"project_name"`
	PaymentMethodID   patch.Field[string]  `json:"payment_method_id"`
	Withholding       patch.Field[bool]    `json:"withholding"`
	WithholdingAmount patch.Field[float64] `json:"withholding_amount"`
	WithholdingRate   patch.Field[float64] `json:"withholding_rate"`
	InvoiceNumber     patch.Field[string]  `json:"invoice_number"`
	InvoiceIssued     patch.Field[bool]    `json:"invoice_issued"`
	InvoiceDate       patch.Field[string]  `json:"invoice_date"`
	TaxRate           patch.Field[float64] `json:"tax_rate"`
	ProjectCode       patch.Field[string]  `json:"project_code"`
	Status            patch.Field[string]  `json:"status"`
	ReceivedDate      patch.Field[string]  `json:"received_date"`
}

// Filter holds the criteria shared by expense and income searches.
type Filter struct {
	Text        string
	CategoryID  string
	Status      string
	DateFrom    string
	DateTo      string
	AmountMin   *float64
	AmountMax   *float64
	ProjectCode string
}

// ExpenseFilter narrows an expense search.
type ExpenseFilter struct {
	Filter
	PaymentMethodID string
	HasReceipt      *bool
	IsDeductible    *bool
}

// IncomeFilter narrows an income search.
type IncomeFilter struct {
	Filter
	Client        string
	Withholding   *bool
	InvoiceIssued *bool
}

// SearchOptions carries sort and page parameters as received.
type SearchOptions struct {
	SortBy    string
	SortOrder string
	Cursor    string
	Limit     int
}

func (f ExpenseFilter) criteria() query.Criteria[models.Expense] {
	c := query.Criteria[models.Expense]{
		Text:       f.Text,
		CategoryID: f.CategoryID,
		Status:     f.Status,
		DateFrom:   f.DateFrom,
		DateTo:     f.DateTo,
		AmountMin:  f.AmountMin,
		AmountMax:  f.AmountMax,
	}
	if f.PaymentMethodID != "" {
		c.Where = append(c.Where, func(e models.Expense) bool {
			return e.PaymentMethodID != nil && *e.PaymentMethodID == f.PaymentMethodID
		})
	}
	if f.ProjectCode != "" {
		c.Where = append(c.Where, func(e models.Expense) bool {
			return e.ProjectCode != nil && *e.ProjectCode == f.ProjectCode
		})
	}
	if f.HasReceipt != nil {
		want := *f.HasReceipt
		c.Where = append(c.Where, func(e models.Expense) bool {
			return (e.ReceiptID != nil) == want
		})
	}
	if f.IsDeductible != nil {
		want := *f.IsDeductible
		c.Where = append(c.Where, func(e models.Expense) bool {
			return flagEquals(e.IsDeductible, want)
		})
	}
	return c
}

func (f IncomeFilter) criteria() query.Criteria[models.Income] {
	c := query.Criteria[models.Income]{
		Text:       f.Text,
		CategoryID: f.CategoryID,
		Status:     f.Status,
		DateFrom:   f.DateFrom,
		DateTo:     f.DateTo,
		AmountMin:  f.AmountMin,
		AmountMax:  f.AmountMax,
	}
	if f.Client != "" {
		c.Where = append(c.Where, func(in models.Income) bool { return in.Client == f.Client })
	}
	if f.ProjectCode != "" {
		c.Where = append(c.Where, func(in models.Income) bool {
			return in.ProjectCode != nil && *in.ProjectCode == f.ProjectCode
		})
	}
	if f.Withholding != nil {
		want := *f.Withholding
		c.Where = append(c.Where, func(in models.Income) bool { return flagEquals(in.Withholding, want) })
	}
	if f.InvoiceIssued != nil {
		want := *f.InvoiceIssued
		c.Where = append(c.Where, func(in models.Income) bool { return flagEquals(in.InvoiceIssued, want) })
	}
	return c
}

// flagEquals compares a stored optional flag strictly; unset matches
// neither true nor false.
func flagEquals(stored *bool, want bool) bool {
	return stored != nil && *stored == want
}
