package ledger_test

import (
	"errors"

	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/models"
	"freelance-ledger/internal/patch"
)

func (s *LedgerSuite) TestCreateExpenseDerivesTax() {
	id, err := s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{
		Date:       "2024-03-01",
		Amount:     11000,
		CategoryID: "EXP003",
		Vendor:     "Amazon",
		TaxRate:    f64p(10),
	})
	s.Require().NoError(err)

	e := s.expense(id)
	s.Equal(models.ExpenseDraft, e.Status)
	s.Require().NotNil(e.IsDeductible)
	s.True(*e.IsDeductible)
	s.Require().NotNil(e.TaxAmount)
	s.Require().NotNil(e.TaxExcludedAmount)
	s.InDelta(1000, *e.TaxAmount, 1e-6)
	s.InDelta(10000, *e.TaxExcludedAmount, 1e-6)
	s.True(s.now.Equal(e.CreatedAt))
	s.True(s.log.HasEntry("INFO", "create expense"))
}

func (s *LedgerSuite) TestCreateExpenseWithoutRateHasNoTax() {
	id, err := s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{
		Date: "2024-03-01", Amount: 500, CategoryID: "EXP001", Vendor: "JR", TaxRate: f64p(0),
		IsDeductible: boolp(false),
	})
	s.Require().NoError(err)
	e := s.expense(id)
	s.Nil(e.TaxAmount)
	s.Nil(e.TaxExcludedAmount)
	s.False(*e.IsDeductible)
}

func (s *LedgerSuite) TestCreateExpenseRequiresUser() {
	_, err := s.svc.CreateExpense(s.ctx, models.Identity{}, ledger.ExpenseInput{Date: "2024-03-01"})
	s.ErrorIs(err, ledger.ErrUnauthenticated)

	_, err = s.svc.CreateExpense(s.ctx, models.Identity{Subject: "stranger"}, ledger.ExpenseInput{Date: "2024-03-01"})
	s.ErrorIs(err, ledger.ErrUserNotFound)

	var opErr *ledger.OpError
	s.Require().True(errors.As(err, &opErr))
	s.Equal("create", opErr.Op)
	s.Equal("expense", opErr.Entity)
}

func (s *LedgerSuite) TestUpdateExpenseMergesPatch() {
	id, err := s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{
		Date: "2024-03-01", Amount: 11000, CategoryID: "EXP003", Vendor: "Amazon",
		TaxRate: f64p(10), Description: strp("monitor"), ProjectCode: strp("P1"),
	})
	s.Require().NoError(err)

	updated, err := s.svc.UpdateExpense(s.ctx, s.alice, id, ledger.ExpensePatch{
		Amount:      patch.Set(22000.0),
		Description: patch.Clear[string](),
		Status:      patch.Set(models.ExpenseConfirmed),
	})
	s.Require().NoError(err)
	s.Equal(22000.0, updated.Amount)
	s.InDelta(2000, *updated.TaxAmount, 1e-6)
	s.Nil(updated.Description)

	e := s.expense(id)
	s.Equal("Amazon", e.Vendor)
	s.Equal("2024-03-01", e.Date)
	s.Equal("P1", *e.ProjectCode)
	s.Equal(models.ExpenseConfirmed, e.Status)
	s.Nil(e.Description)
	s.InDelta(20000, *e.TaxExcludedAmount, 1e-6)
}

func (s *LedgerSuite) TestUpdateExpenseClearingRateClearsTax() {
	id, err := s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{
		Date: "2024-03-01", Amount: 11000, CategoryID: "EXP003", Vendor: "Amazon", TaxRate: f64p(10),
	})
	s.Require().NoError(err)

	_, err = s.svc.UpdateExpense(s.ctx, s.alice, id, ledger.ExpensePatch{TaxRate: patch.Clear[float64]()})
	s.Require().NoError(err)
	e := s.expense(id)
	s.Nil(e.TaxRate)
	s.Nil(e.TaxAmount)
	s.Nil(e.TaxExcludedAmount)
}

func (s *LedgerSuite) TestUpdateExpenseWithoutAmountKeepsTax() {
	id, err := s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{
		Date: "2024-03-01", Amount: 11000, CategoryID: "EXP003", Vendor: "Amazon", TaxRate: f64p(10),
	})
	s.Require().NoError(err)

	_, err = s.svc.UpdateExpense(s.ctx, s.alice, id, ledger.ExpensePatch{Vendor: patch.Set("Yodobashi")})
	s.Require().NoError(err)
	e := s.expense(id)
	s.Equal("Yodobashi", e.Vendor)
	s.InDelta(1000, *e.TaxAmount, 1e-6)
}

func (s *LedgerSuite) TestExpenseMutationsCheckOwnership() {
	id := s.createExpense(s.alice, "2024-03-01", 1000, "JR")

	_, err := s.svc.UpdateExpense(s.ctx, s.bob, id, ledger.ExpensePatch{Amount: patch.Set(1.0)})
	s.ErrorIs(err, ledger.ErrUnauthorized)
	s.True(s.log.HasEntry("WARN", "ownership check failed"))

	err = s.svc.DeleteExpense(s.ctx, s.bob, id)
	s.ErrorIs(err, ledger.ErrUnauthorized)

	err = s.svc.DeleteExpense(s.ctx, models.Identity{Subject: "stranger"}, id)
	s.ErrorIs(err, ledger.ErrUnauthorized)

	_, err = s.svc.UpdateExpense(s.ctx, s.alice, id+100, ledger.ExpensePatch{})
	s.ErrorIs(err, ledger.ErrNotFound)

	err = s.svc.DeleteExpense(s.ctx, models.Identity{}, id)
	s.ErrorIs(err, ledger.ErrUnauthenticated)

	s.Equal(1000.0, s.expense(id).Amount)
}

func (s *LedgerSuite) TestReceiptLinkAndUnlink() {
	rid, err := s.svc.SaveReceipt(s.ctx, s.alice, ledger.ReceiptInput{
		StorageID: "blob-1", FileName: "r.pdf", MimeType: "application/pdf", Size: 1024,
	})
	s.Require().NoError(err)

	id, err := s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{
		Date: "2024-03-01", Amount: 3000, CategoryID: "EXP002", Vendor: "Cafe", ReceiptID: i64p(rid),
	})
	s.Require().NoError(err)

	r, err := s.db.Receipt(s.ctx, rid)
	s.Require().NoError(err)
	s.Require().NotNil(r.ExpenseID)
	s.Equal(id, *r.ExpenseID)

	list, err := s.svc.ListExpenses(s.ctx, s.alice, "", 0)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Require().NotNil(list[0].Receipt)
	s.Equal("r.pdf", list[0].Receipt.FileName)

	s.Require().NoError(s.svc.DeleteExpense(s.ctx, s.alice, id))

	r, err = s.db.Receipt(s.ctx, rid)
	s.Require().NoError(err)
	s.Require().NotNil(r, "receipt survives its expense")
	s.Nil(r.ExpenseID)

	gone, err := s.db.Expense(s.ctx, id)
	s.NoError(err)
	s.Nil(gone)
}

func (s *LedgerSuite) TestCreateExpenseRejectsForeignReceipt() {
	rid, err := s.svc.SaveReceipt(s.ctx, s.bob, ledger.ReceiptInput{StorageID: "blob-2", FileName: "b.png", MimeType: "image/png"})
	s.Require().NoError(err)

	_, err = s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{
		Date: "2024-03-01", Amount: 1, CategoryID: "EXP001", Vendor: "x", ReceiptID: i64p(rid),
	})
	s.ErrorIs(err, ledger.ErrNotFound)

	list, err := s.svc.ListExpenses(s.ctx, s.alice, "", 0)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *LedgerSuite) TestSearchExpenses() {
	s.createExpense(s.alice, "2024-01-10", 3000, "Taxi")
	s.createExpense(s.alice, "2024-02-10", 1000, "JR東日本")
	s.createExpense(s.alice, "2024-03-10", 2000, "Starbucks")
	s.createExpense(s.bob, "2024-03-11", 9999, "Bob's")

	res, err := s.svc.SearchExpenses(s.ctx, s.alice, ledger.ExpenseFilter{}, ledger.SearchOptions{})
	s.Require().NoError(err)
	s.Equal(3, res.TotalCount)
	s.Equal([]string{"2024-03-10", "2024-02-10", "2024-01-10"}, expenseDates(res.Items))

	res, err = s.svc.SearchExpenses(s.ctx, s.alice,
		ledger.ExpenseFilter{Filter: ledger.Filter{DateFrom: "2024-02-01"}},
		ledger.SearchOptions{SortBy: "amount", SortOrder: "asc"})
	s.Require().NoError(err)
	s.Equal([]string{"2024-02-10", "2024-03-10"}, expenseDates(res.Items))

	res, err = s.svc.SearchExpenses(s.ctx, s.alice,
		ledger.ExpenseFilter{Filter: ledger.Filter{Text: "starbucks"}}, ledger.SearchOptions{})
	s.Require().NoError(err)
	s.Require().Len(res.Items, 1)
	s.Equal("Starbucks", res.Items[0].Vendor)
}

func (s *LedgerSuite) TestSearchExpensesPages() {
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		s.createExpense(s.alice, d, 100, "JR")
	}

	var seen []string
	opts := ledger.SearchOptions{Limit: 2, SortOrder: "asc"}
	for {
		res, err := s.svc.SearchExpenses(s.ctx, s.alice, ledger.ExpenseFilter{}, opts)
		s.Require().NoError(err)
		s.Equal(5, res.TotalCount)
		seen = append(seen, expenseDates(res.Items)...)
		if !res.HasMore {
			s.Empty(res.NextCursor)
			break
		}
		opts.Cursor = res.NextCursor
	}
	s.Equal([]string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"}, seen)

	_, err := s.svc.SearchExpenses(s.ctx, s.alice, ledger.ExpenseFilter{}, ledger.SearchOptions{Cursor: "not-a-cursor"})
	s.True(ledger.IsInvalidCursor(err))
}

func (s *LedgerSuite) TestSearchExpensesFlags() {
	s.createExpense(s.alice, "2024-01-10", 3000, "Taxi")
	_, err := s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{
		Date: "2024-01-11", Amount: 50, CategoryID: "EXP999", Vendor: "Gift", IsDeductible: boolp(false),
		PaymentMethodID: strp("PM001"),
	})
	s.Require().NoError(err)

	res, err := s.svc.SearchExpenses(s.ctx, s.alice, ledger.ExpenseFilter{IsDeductible: boolp(false)}, ledger.SearchOptions{})
	s.Require().NoError(err)
	s.Require().Len(res.Items, 1)
	s.Equal("Gift", res.Items[0].Vendor)

	res, err = s.svc.SearchExpenses(s.ctx, s.alice, ledger.ExpenseFilter{HasReceipt: boolp(true)}, ledger.SearchOptions{})
	s.Require().NoError(err)
	s.Empty(res.Items)

	res, err = s.svc.SearchExpenses(s.ctx, s.alice, ledger.ExpenseFilter{PaymentMethodID: "PM001"}, ledger.SearchOptions{})
	s.Require().NoError(err)
	s.Len(res.Items, 1)
}

func (s *LedgerSuite) TestExpenseReadsForUnknownCaller() {
	s.createExpense(s.alice, "2024-03-01", 1000, "JR")

	for _, who := range []models.Identity{{}, {Subject: "stranger"}} {
		res, err := s.svc.SearchExpenses(s.ctx, who, ledger.ExpenseFilter{}, ledger.SearchOptions{})
		s.NoError(err)
		s.NotNil(res.Items)
		s.Empty(res.Items)

		list, err := s.svc.ListExpenses(s.ctx, who, "", 0)
		s.NoError(err)
		s.Empty(list)

		summary, err := s.svc.ExpenseSummary(s.ctx, who, "", "")
		s.NoError(err)
		s.Nil(summary)

		total, err := s.svc.CurrentMonthExpenseTotal(s.ctx, who)
		s.NoError(err)
		s.Zero(total)
	}
}

func (s *LedgerSuite) TestListExpensesNewestFirst() {
	first := s.createExpense(s.alice, "2024-03-05", 100, "A")
	second := s.createExpense(s.alice, "2024-01-01", 200, "B")
	third := s.createExpense(s.alice, "2024-02-01", 300, "C")
	_, err := s.svc.UpdateExpense(s.ctx, s.alice, second, ledger.ExpensePatch{Status: patch.Set(models.ExpenseSubmitted)})
	s.Require().NoError(err)

	list, err := s.svc.ListExpenses(s.ctx, s.alice, "", 2)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(third, list[0].ID)
	s.Equal(second, list[1].ID)

	list, err = s.svc.ListExpenses(s.ctx, s.alice, models.ExpenseDraft, 0)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(third, list[0].ID)
	s.Equal(first, list[1].ID)
}

func (s *LedgerSuite) TestExpenseSummaryAndMonthTotal() {
	s.createExpense(s.alice, "2024-02-28", 500, "JR")
	s.createExpense(s.alice, "2024-03-01", 1000, "JR")
	_, err := s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{
		Date: "2024-03-20", Amount: 2000, CategoryID: "EXP002", Vendor: "Cafe", PaymentMethodID: strp("PM002"),
	})
	s.Require().NoError(err)

	summary, err := s.svc.ExpenseSummary(s.ctx, s.alice, "2024-03-01", "2024-03-31")
	s.Require().NoError(err)
	s.Equal(3000.0, summary.TotalAmount)
	s.Equal(2, summary.TotalCount)
	s.Equal(1000.0, summary.CategoryTotals["EXP001"].Amount)
	s.Equal(1, summary.PaymentMethodTotals["未設定"].Count)
	s.Equal(2000.0, summary.PaymentMethodTotals["PM002"].Amount)

	total, err := s.svc.CurrentMonthExpenseTotal(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(3000.0, total)
}

func (s *LedgerSuite) TestExpensesBetweenOrdersByDate() {
	s.createExpense(s.alice, "2024-03-10", 1, "C")
	s.createExpense(s.alice, "2024-01-10", 2, "A")
	s.createExpense(s.alice, "2024-02-10", 3, "B")
	s.createExpense(s.alice, "2023-12-31", 4, "old")

	got, err := s.svc.ExpensesBetween(s.ctx, s.alice, "2024-01-01", "2024-12-31")
	s.Require().NoError(err)
	s.Equal([]string{"2024-01-10", "2024-02-10", "2024-03-10"}, []string{got[0].Date, got[1].Date, got[2].Date})

	none, err := s.svc.ExpensesBetween(s.ctx, models.Identity{}, "", "")
	s.NoError(err)
	s.Empty(none)
}

func expenseDates(items []models.ExpenseWithReceipt) []string {
	out := make([]string, len(items))
	for i, e := range items {
		out[i] = e.Date
	}
	return out
}
