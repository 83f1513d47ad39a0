package models

// Payment method types.
const (
	MethodExpense = "expense"
	MethodIncome  = "income"
	MethodBoth    = "both"
)

// ExpenseCategory is a global expense category.
type ExpenseCategory struct {
	CategoryID    string `json:"category_id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	TaxDeductible bool   `json:"tax_deductible"`
	SortOrder     int    `json:"sort_order"`
}

// IncomeCategory is a global income category. Withholding marks categories
// that normally carry withholding tax.
type IncomeCategory struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Withholding bool   `json:"withholding"`
	SortOrder   int    `json:"sort_order"`
}

// PaymentMethod is a global payment or receipt method.
type PaymentMethod struct {
	MethodID  string `json:"method_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	SortOrder int    `json:"sort_order"`
}

// AppliesTo reports whether the method can be used for the given type.
func (m PaymentMethod) AppliesTo(typ string) bool {
	return m.Type == typ || m.Type == MethodBoth
}
