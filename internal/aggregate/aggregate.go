// Package aggregate folds expense and income records into summaries and
// balance reports. All functions are pure; callers pass records already
// narrowed to one user and date range.
package aggregate

import (
	"cmp"
	"fmt"
	"slices"

	"freelance-ledger/internal/models"
)

// UnsetPaymentMethod is the bucket for expenses without a payment method.
const UnsetPaymentMethod = "未設定"

// Bucket is a count and sum over a group of expenses.
type Bucket struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// IncomeBucket is a count and sums over a group of incomes.
type IncomeBucket struct {
	Count             int     `json:"count"`
	Amount            float64 `json:"amount"`
	WithholdingAmount float64 `json:"withholding_amount"`
}

func (b *IncomeBucket) add(in models.Income) {
	b.Count++
	b.Amount += in.Amount
	b.WithholdingAmount += in.Withheld()
}

// ExpenseSummary is the expense overview shown on the dashboard.
type ExpenseSummary struct {
	TotalAmount         float64           `json:"total_amount"`
	TotalCount          int               `json:"total_count"`
	CategoryTotals      map[string]Bucket `json:"category_totals"`
	PaymentMethodTotals map[string]Bucket `json:"payment_method_totals"`
	DeductibleAmount    float64           `json:"deductible_amount"`
}

// SummarizeExpenses totals expenses by category and payment method.
func SummarizeExpenses(expenses []models.Expense) ExpenseSummary {
	s := ExpenseSummary{
		CategoryTotals:      make(map[string]Bucket),
		PaymentMethodTotals: make(map[string]Bucket),
	}
	for _, e := range expenses {
		s.TotalAmount += e.Amount
		s.TotalCount++

		cat := s.CategoryTotals[e.CategoryID]
		cat.Count++
		cat.Amount += e.Amount
		s.CategoryTotals[e.CategoryID] = cat

		method := UnsetPaymentMethod
		if e.PaymentMethodID != nil && *e.PaymentMethodID != "" {
			method = *e.PaymentMethodID
		}
		pm := s.PaymentMethodTotals[method]
		pm.Count++
		pm.Amount += e.Amount
		s.PaymentMethodTotals[method] = pm

		if e.Deductible() {
			s.DeductibleAmount += e.Amount
		}
	}
	return s
}

// IncomeSummary is the income overview shown on the dashboard.
type IncomeSummary struct {
	TotalAmount            float64                  `json:"total_amount"`
	TotalWithholdingAmount float64                  `json:"total_withholding_amount"`
	NetAmount              float64                  `json:"net_amount"`
	TotalCount             int                      `json:"total_count"`
	CategoryTotals         map[string]*IncomeBucket `json:"category_totals"`
	ClientTotals           map[string]*IncomeBucket `json:"client_totals"`
}

// SummarizeIncomes totals incomes by category and client.
func SummarizeIncomes(incomes []models.Income) IncomeSummary {
	s := IncomeSummary{
		CategoryTotals: make(map[string]*IncomeBucket),
		ClientTotals:   make(map[string]*IncomeBucket),
	}
	for _, in := range incomes {
		s.TotalAmount += in.Amount
		s.TotalWithholdingAmount += in.Withheld()
		s.TotalCount++
		bucket(s.CategoryTotals, in.CategoryID).add(in)
		bucket(s.ClientTotals, in.Client).add(in)
	}
	s.NetAmount = s.TotalAmount - s.TotalWithholdingAmount
	return s
}

func bucket(m map[string]*IncomeBucket, key string) *IncomeBucket {
	b, ok := m[key]
	if !ok {
		b = &IncomeBucket{}
		m[key] = b
	}
	return b
}

// MonthFlow is one month of the balance summary.
type MonthFlow struct {
	Income      float64 `json:"income"`
	Withholding float64 `json:"withholding"`
	Expenses    float64 `json:"expenses"`
	Balance     float64 `json:"balance"`
}

// BalanceSummary combines income and expense totals over a period.
type BalanceSummary struct {
	TotalIncome      float64               `json:"total_income"`
	TotalWithholding float64               `json:"total_withholding"`
	NetIncome        float64               `json:"net_income"`
	TotalExpenses    float64               `json:"total_expenses"`
	Balance          float64               `json:"balance"`
	IncomeCount      int                   `json:"income_count"`
	ExpenseCount     int                   `json:"expense_count"`
	Monthly          map[string]*MonthFlow `json:"monthly_data"`
}

// Balance computes the period balance. Monthly only holds months that have
// at least one record.
func Balance(incomes []models.Income, expenses []models.Expense) BalanceSummary {
	s := BalanceSummary{
		IncomeCount:  len(incomes),
		ExpenseCount: len(expenses),
		Monthly:      make(map[string]*MonthFlow),
	}
	month := func(date string) *MonthFlow {
		key := MonthKey(date)
		m, ok := s.Monthly[key]
		if !ok {
			m = &MonthFlow{}
			s.Monthly[key] = m
		}
		return m
	}

	for _, in := range incomes {
		s.TotalIncome += in.Amount
		s.TotalWithholding += in.Withheld()
		m := month(in.Date)
		m.Income += in.Amount
		m.Withholding += in.Withheld()
	}
	for _, e := range expenses {
		s.TotalExpenses += e.Amount
		month(e.Date).Expenses += e.Amount
	}
	for _, m := range s.Monthly {
		m.Balance = m.Income - m.Withholding - m.Expenses
	}

	s.NetIncome = s.TotalIncome - s.TotalWithholding
	s.Balance = s.NetIncome - s.TotalExpenses
	return s
}

// MonthKey returns the YYYY-MM prefix of a date.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// YearRange returns the inclusive date bounds of a calendar year.
func YearRange(year int) (from, to string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)
}

// Period is one row of a monthly or yearly balance report.
type Period struct {
	Month             string  `json:"month,omitempty" yaml:"month,omitempty" csv:"month"`
	Year              int     `json:"year,omitempty" yaml:"year,omitempty" csv:"year"`
	Income            float64 `json:"income" yaml:"income" csv:"income"`
	WithholdingAmount float64 `json:"withholding_amount" yaml:"withholding_amount" csv:"withholding_amount"`
	NetIncome         float64 `json:"net_income" yaml:"net_income" csv:"net_income"`
	Expenses          float64 `json:"expenses" yaml:"expenses" csv:"expenses"`
	Balance           float64 `json:"balance" yaml:"balance" csv:"balance"`
}

func (p *Period) settle() {
	p.NetIncome = p.Income - p.WithholdingAmount
	p.Balance = p.NetIncome - p.Expenses
}

// MonthlyBalances returns twelve ascending months of year, zero-filled.
// Records outside the year are ignored. A positive limit keeps the first
// limit months.
func MonthlyBalances(year int, incomes []models.Income, expenses []models.Expense, limit int) []Period {
	months := make([]Period, 12)
	index := make(map[string]int, 12)
	for i := range months {
		key := fmt.Sprintf("%04d-%02d", year, i+1)
		months[i].Month = key
		index[key] = i
	}

	for _, in := range incomes {
		if i, ok := index[MonthKey(in.Date)]; ok {
			months[i].Income += in.Amount
			months[i].WithholdingAmount += in.Withheld()
		}
	}
	for _, e := range expenses {
		if i, ok := index[MonthKey(e.Date)]; ok {
			months[i].Expenses += e.Amount
		}
	}
	for i := range months {
		months[i].settle()
	}

	if limit > 0 && limit < len(months) {
		months = months[:limit]
	}
	return months
}

// MaxYears bounds the length of a yearly report.
const MaxYears = 100

// YearlyBalances returns one row per year for currentYear, currentYear-1,
// and so on, newest first. years is capped at MaxYears.
func YearlyBalances(currentYear, years int, incomes []models.Income, expenses []models.Expense) []Period {
	if years <= 0 {
		return []Period{}
	}
	years = min(years, MaxYears)
	rows := make([]Period, years)
	index := make(map[string]int, years)
	for i := range rows {
		y := currentYear - i
		rows[i].Year = y
		index[fmt.Sprintf("%04d", y)] = i
	}

	yearOf := func(date string) string {
		if len(date) < 4 {
			return date
		}
		return date[:4]
	}
	for _, in := range incomes {
		if i, ok := index[yearOf(in.Date)]; ok {
			rows[i].Income += in.Amount
			rows[i].WithholdingAmount += in.Withheld()
		}
	}
	for _, e := range expenses {
		if i, ok := index[yearOf(e.Date)]; ok {
			rows[i].Expenses += e.Amount
		}
	}
	for i := range rows {
		rows[i].settle()
	}
	return rows
}

// IncomeTotals is the month-to-date income figure.
type IncomeTotals struct {
	Total            float64 `json:"total"`
	WithholdingTotal float64 `json:"withholding_total"`
	NetTotal         float64 `json:"net_total"`
}

// SumExpenses adds up expense amounts.
func SumExpenses(expenses []models.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// SumIncomes adds up income amounts and withholding.
func SumIncomes(incomes []models.Income) IncomeTotals {
	var t IncomeTotals
	for _, in := range incomes {
		t.Total += in.Amount
		t.WithholdingTotal += in.Withheld()
	}
	t.NetTotal = t.Total - t.WithholdingTotal
	return t
}

// CategoryShare is a category's slice of total spending.
type CategoryShare struct {
	CategoryID string  `json:"category_id"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Shares turns category totals into percentages, largest first.
func Shares(totals map[string]Bucket) []CategoryShare {
	var sum float64
	for _, b := range totals {
		sum += b.Amount
	}
	out := make([]CategoryShare, 0, len(totals))
	for id, b := range totals {
		pct := 0.0
		if sum > 0 {
			pct = b.Amount / sum * 100
		}
		out = append(out, CategoryShare{CategoryID: id, Total: b.Amount, Count: b.Count, Percentage: pct})
	}
	slices.SortFunc(out, func(a, b CategoryShare) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.CategoryID, b.CategoryID)
	})
	return out
}
