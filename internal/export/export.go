// Package export writes ledger records as CSV for filing preparation.
//
// Amounts are rounded to two places for the sheet. Tax and withholding
// columns use the floor rounding shown on screen; the stored records keep
// full precision.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"freelance-ledger/internal/aggregate"
	"freelance-ledger/internal/models"
	"freelance-ledger/internal/taxcalc"
)

// ExpenseRow is one line of the expense sheet.
type ExpenseRow struct {
	ID              int64  `csv:"id"`
	Date            string `csv:"date"`
	CategoryID      string `csv:"category_id"`
	Vendor          string `csv:"vendor"`
	Amount          string `csv:"amount"`
	TaxRate         string `csv:"tax_rate"`
	TaxAmount       string `csv:"tax_amount"`
	TaxExcluded     string `csv:"tax_excluded_amount"`
	PaymentMethodID string `csv:"payment_method_id"`
	InvoiceNumber   string `csv:"invoice_number"`
	ProjectCode     string `csv:"project_code"`
	Deductible      bool   `csv:"deductible"`
	Status          string `csv:"status"`
	Description     string `csv:"description"`
}

// IncomeRow is one line of the income sheet.
type IncomeRow struct {
	ID                int64  `csv:"id"`
	Date              string `csv:"date"`
	CategoryID        string `csv:"category_id"`
	Client            string `csv:"client"`
	Amount            string `csv:"amount"`
	WithholdingAmount string `csv:"withholding_amount"`
	NetAmount         string `csv:"net_amount"`
	TaxRate           string `csv:"tax_rate"`
	TaxAmount         string `csv:"tax_amount"`
	InvoiceNumber     string `csv:"invoice_number"`
	ProjectCode       string `csv:"project_code"`
	Status            string `csv:"status"`
	ReceivedDate      string `csv:"received_date"`
}

// ExpenseRows converts expenses to sheet rows.
func ExpenseRows(expenses []models.Expense) []ExpenseRow {
	rows := make([]ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		row := ExpenseRow{
			ID:              e.ID,
			Date:            e.Date,
			CategoryID:      e.CategoryID,
			Vendor:          e.Vendor,
			Amount:          Money(e.Amount),
			PaymentMethodID: deref(e.PaymentMethodID),
			InvoiceNumber:   deref(e.InvoiceNumber),
			ProjectCode:     deref(e.ProjectCode),
			Deductible:      e.Deductible(),
			Status:          e.Status,
			Description:     deref(e.Description),
		}
		if e.TaxRate != nil && *e.TaxRate > 0 {
			tax := taxcalc.DisplayTax(e.Amount, *e.TaxRate)
			row.TaxRate = rate(*e.TaxRate)
			row.TaxAmount = tax.String()
			row.TaxExcluded = decimal.NewFromFloat(e.Amount).Sub(tax).Round(2).String()
		}
		rows = append(rows, row)
	}
	return rows
}

// IncomeRows converts incomes to sheet rows.
func IncomeRows(incomes []models.Income) []IncomeRow {
	rows := make([]IncomeRow, 0, len(incomes))
	for _, in := range incomes {
		withheld := decimal.NewFromFloat(in.Withheld()).Floor()
		row := IncomeRow{
			ID:                in.ID,
			Date:              in.Date,
			CategoryID:        in.CategoryID,
			Client:            in.Client,
			Amount:            Money(in.Amount),
			WithholdingAmount: withheld.String(),
			NetAmount:         decimal.NewFromFloat(in.Amount).Sub(withheld).Round(2).String(),
			InvoiceNumber:     deref(in.InvoiceNumber),
			ProjectCode:       deref(in.ProjectCode),
			Status:            in.Status,
			ReceivedDate:      deref(in.ReceivedDate),
		}
		if in.TaxRate != nil && *in.TaxRate > 0 {
			row.TaxRate = rate(*in.TaxRate)
			row.TaxAmount = taxcalc.DisplayTax(in.Amount, *in.TaxRate).String()
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteExpenses writes the expense sheet with a header line.
func WriteExpenses(w io.Writer, expenses []models.Expense) error {
	if err := gocsv.Marshal(ExpenseRows(expenses), w); err != nil {
		return fmt.Errorf("write expenses csv: %w", err)
	}
	return nil
}

// WriteIncomes writes the income sheet with a header line.
func WriteIncomes(w io.Writer, incomes []models.Income) error {
	if err := gocsv.Marshal(IncomeRows(incomes), w); err != nil {
		return fmt.Errorf("write incomes csv: %w", err)
	}
	return nil
}

// WritePeriods writes a monthly or yearly balance report.
func WritePeriods(w io.Writer, periods []aggregate.Period) error {
	if err := gocsv.Marshal(periods, w); err != nil {
		return fmt.Errorf("write report csv: %w", err)
	}
	return nil
}

// Money formats an amount rounded to two places with trailing zeros dropped.
func Money(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

func rate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
