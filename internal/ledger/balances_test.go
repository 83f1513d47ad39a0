package ledger_test

import (
	"freelance-ledger/internal/aggregate"
	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/models"
)

func (s *LedgerSuite) seedBalances() {
	s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-03-05", Amount: 50000})
	s.createIncome(s.alice, ledger.IncomeInput{Date: "2023-06-01", Amount: 20000, WithholdingAmount: f64p(2000)})
	s.createExpense(s.alice, "2024-03-10", 20000, "Rent")
	s.createExpense(s.alice, "2022-12-31", 4000, "Old")
	s.createExpense(s.alice, "2021-01-01", 999, "Ancient")
}

func (s *LedgerSuite) TestBalanceSummary() {
	s.seedBalances()
	b, err := s.svc.BalanceSummary(s.ctx, s.alice, "2024-01-01", "2024-12-31")
	s.Require().NoError(err)
	s.Equal(50000.0, b.TotalIncome)
	s.Equal(20000.0, b.TotalExpenses)
	s.Equal(30000.0, b.Balance)
	s.Require().Contains(b.Monthly, "2024-03")
	s.Equal(30000.0, b.Monthly["2024-03"].Balance)
	s.Len(b.Monthly, 1)

	none, err := s.svc.BalanceSummary(s.ctx, models.Identity{}, "", "")
	s.NoError(err)
	s.Nil(none)
}

func (s *LedgerSuite) TestMonthlyBalancesDefaultsToCurrentYear() {
	s.seedBalances()
	rows, err := s.svc.MonthlyBalances(s.ctx, s.alice, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(rows, 12)
	s.Equal("2024-01", rows[0].Month)
	s.Equal(30000.0, rows[2].Balance)

	rows, err = s.svc.MonthlyBalances(s.ctx, s.alice, 2023, 6)
	s.Require().NoError(err)
	s.Require().Len(rows, 6)
	s.Equal(18000.0, rows[5].NetIncome)
}

func (s *LedgerSuite) TestYearlyBalances() {
	s.seedBalances()
	rows, err := s.svc.YearlyBalances(s.ctx, s.alice, 0)
	s.Require().NoError(err)
	s.Require().Len(rows, ledger.DefaultReportYears)
	s.Equal([]int{2024, 2023, 2022}, []int{rows[0].Year, rows[1].Year, rows[2].Year})
	s.Equal(30000.0, rows[0].Balance)
	s.Equal(18000.0, rows[1].Balance)
	s.Equal(-4000.0, rows[2].Balance)

	rows, err = s.svc.YearlyBalances(s.ctx, models.Identity{Subject: "stranger"}, 2)
	s.NoError(err)
	s.Empty(rows)
}

func (s *LedgerSuite) TestYearlyBalancesCapsYears() {
	s.seedBalances()
	rows, err := s.svc.YearlyBalances(s.ctx, s.alice, 1<<62)
	s.Require().NoError(err)
	s.Require().Len(rows, aggregate.MaxYears)
	s.Equal(2024, rows[0].Year)
	s.Equal(-4000.0, rows[2].Balance)
}

func (s *LedgerSuite) TestCategoryShares() {
	s.createExpense(s.alice, "2024-03-01", 750, "JR")
	_, err := s.svc.CreateExpense(s.ctx, s.alice, ledger.ExpenseInput{Date: "2024-03-02", Amount: 250, CategoryID: "EXP002", Vendor: "Cafe"})
	s.Require().NoError(err)

	shares, err := s.svc.CategoryShares(s.ctx, s.alice, "2024-03-01", "2024-03-31")
	s.Require().NoError(err)
	s.Require().Len(shares, 2)
	s.Equal("EXP001", shares[0].CategoryID)
	s.InDelta(75, shares[0].Percentage, 1e-9)

	shares, err = s.svc.CategoryShares(s.ctx, models.Identity{}, "", "")
	s.NoError(err)
	s.Empty(shares)
}
