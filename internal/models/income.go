package models

import "time"

// Income statuses.
const (
	IncomeDraft     = "draft"
	IncomeConfirmed = "confirmed"
	IncomeReceived  = "received"
)

// Income represents revenue billed to a client.
type Income struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	Date              string    `json:"date"` // accrual date, YYYY-MM-DD
	Amount            float64   `json:"amount"`
	CategoryID        string    `json:"category_id"`
	Client            string    `json:"client"`
	Description       *string   `json:"description,omitempty"`
	ProjectName       *string   `json:"project_name,omitempty"`
	PaymentMethodID   *string   `json:"payment_method_id,omitempty"`
	Withholding       *bool     `json:"withholding,omitempty"`
	WithholdingAmount *float64  `json:"withholding_amount,omitempty"`
	WithholdingRate   *float64  `json:"withholding_rate,omitempty"`
	InvoiceNumber     *string   `json:"invoice_number,omitempty"`
	InvoiceIssued     *bool     `json:"invoice_issued,omitempty"`
	InvoiceDate       *string   `json:"invoice_date,omitempty"`
	TaxRate           *float64  `json:"tax_rate,omitempty"`
	TaxAmount         *float64  `json:"tax_amount,omitempty"`
	TaxExcludedAmount *float64  `json:"tax_excluded_amount,omitempty"`
	ProjectCode       *string   `json:"project_code,omitempty"`
	Status            string    `json:"status"`
	ReceivedDate      *string   `json:"received_date,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (i Income) RecordDate() string         { return i.Date }
func (i Income) RecordAmount() float64      { return i.Amount }
func (i Income) RecordCategory() string     { return i.CategoryID }
func (i Income) RecordStatus() string       { return i.Status }
func (i Income) RecordCreatedAt() time.Time { return i.CreatedAt }
func (i Income) Counterparty() string       { return i.Client }

// SearchFields lists the text matched by free-text search.
func (i Income) SearchFields() []string {
	return compact(i.Client, i.Description, i.ProjectName, i.InvoiceNumber)
}

// Withheld returns the recorded withholding, zero when none.
func (i Income) Withheld() float64 {
	if i.WithholdingAmount == nil {
		return 0
	}
	return *i.WithholdingAmount
}
