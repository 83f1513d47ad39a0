package ledger_test

import (
	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/models"
	"freelance-ledger/internal/patch"
)

func (s *LedgerSuite) withholdingIncome() int64 {
	return s.createIncome(s.alice, ledger.IncomeInput{
		Date:            "2024-03-01",
		Amount:          100000,
		Withholding:     boolp(true),
		WithholdingRate: f64p(10.21),
	})
}

func (s *LedgerSuite) TestCreateIncomeDerivesWithholding() {
	id := s.withholdingIncome()
	in := s.income(id)
	s.Require().NotNil(in.WithholdingAmount)
	s.InDelta(10210, *in.WithholdingAmount, 1e-6)
	s.Equal(models.IncomeConfirmed, in.Status)
	s.Nil(in.TaxAmount)
}

func (s *LedgerSuite) TestCreateIncomeStatusFromReceivedDate() {
	id := s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-03-01", Amount: 1, ReceivedDate: strp("2024-03-31")})
	s.Equal(models.IncomeReceived, s.income(id).Status)

	id = s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-03-01", Amount: 1, ReceivedDate: strp("")})
	s.Equal(models.IncomeConfirmed, s.income(id).Status)
}

func (s *LedgerSuite) TestCreateIncomeExplicitWithholdingWins() {
	id := s.createIncome(s.alice, ledger.IncomeInput{
		Date: "2024-03-01", Amount: 100000, Withholding: boolp(true),
		WithholdingRate: f64p(10.21), WithholdingAmount: f64p(9000),
	})
	s.Equal(9000.0, *s.income(id).WithholdingAmount)

	id = s.createIncome(s.alice, ledger.IncomeInput{
		Date: "2024-03-01", Amount: 100000, Withholding: boolp(false), WithholdingRate: f64p(10.21),
	})
	s.Nil(s.income(id).WithholdingAmount)
}

func (s *LedgerSuite) TestUpdateIncomeRecomputesWithholding() {
	id := s.withholdingIncome()

	updated, err := s.svc.UpdateIncome(s.ctx, s.alice, id, ledger.IncomePatch{Amount: patch.Set(200000.0)})
	s.Require().NoError(err)
	s.InDelta(20420, *updated.WithholdingAmount, 1e-6)

	_, err = s.svc.UpdateIncome(s.ctx, s.alice, id, ledger.IncomePatch{Description: patch.Set("retainer")})
	s.Require().NoError(err)
	s.InDelta(20420, *s.income(id).WithholdingAmount, 1e-6)
}

func (s *LedgerSuite) TestUpdateIncomeExplicitZero() {
	id := s.withholdingIncome()
	_, err := s.svc.UpdateIncome(s.ctx, s.alice, id, ledger.IncomePatch{WithholdingAmount: patch.Set(0.0)})
	s.Require().NoError(err)
	in := s.income(id)
	s.Require().NotNil(in.WithholdingAmount)
	s.Zero(*in.WithholdingAmount)
}

func (s *LedgerSuite) TestUpdateIncomeFlagOffClearsWithholding() {
	id := s.withholdingIncome()
	_, err := s.svc.UpdateIncome(s.ctx, s.alice, id, ledger.IncomePatch{Withholding: patch.Set(false)})
	s.Require().NoError(err)
	in := s.income(id)
	s.False(*in.Withholding)
	s.Nil(in.WithholdingAmount)
	s.Zero(in.Withheld())
}

func (s *LedgerSuite) TestUpdateIncomeClearedRateClearsWithholding() {
	id := s.withholdingIncome()
	_, err := s.svc.UpdateIncome(s.ctx, s.alice, id, ledger.IncomePatch{WithholdingRate: patch.Clear[float64]()})
	s.Require().NoError(err)
	s.Nil(s.income(id).WithholdingAmount)
}

func (s *LedgerSuite) TestUpdateIncomeKeepsManualWithholding() {
	id := s.createIncome(s.alice, ledger.IncomeInput{
		Date: "2024-03-01", Amount: 50000, WithholdingAmount: f64p(5000),
	})
	_, err := s.svc.UpdateIncome(s.ctx, s.alice, id, ledger.IncomePatch{Amount: patch.Set(60000.0)})
	s.Require().NoError(err)
	in := s.income(id)
	s.Equal(60000.0, in.Amount)
	s.Equal(5000.0, *in.WithholdingAmount)
}

func (s *LedgerSuite) TestUpdateIncomeTax() {
	id := s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-03-01", Amount: 11000, TaxRate: f64p(10)})
	s.InDelta(1000, *s.income(id).TaxAmount, 1e-6)

	_, err := s.svc.UpdateIncome(s.ctx, s.alice, id, ledger.IncomePatch{TaxRate: patch.Set(-1.0)})
	s.Require().NoError(err)
	in := s.income(id)
	s.Nil(in.TaxAmount)
	s.Nil(in.TaxExcludedAmount)
}

func (s *LedgerSuite) TestIncomeMutationsCheckOwnership() {
	id := s.withholdingIncome()

	_, err := s.svc.UpdateIncome(s.ctx, s.bob, id, ledger.IncomePatch{Amount: patch.Set(1.0)})
	s.ErrorIs(err, ledger.ErrUnauthorized)

	s.ErrorIs(s.svc.DeleteIncome(s.ctx, s.bob, id), ledger.ErrUnauthorized)
	s.ErrorIs(s.svc.DeleteIncome(s.ctx, s.alice, id+1), ledger.ErrNotFound)

	_, err = s.svc.UpdateIncome(s.ctx, models.Identity{}, id, ledger.IncomePatch{})
	s.ErrorIs(err, ledger.ErrUnauthenticated)

	s.Require().NoError(s.svc.DeleteIncome(s.ctx, s.alice, id))
	gone, err := s.db.Income(s.ctx, id)
	s.NoError(err)
	s.Nil(gone)
}

func (s *LedgerSuite) TestSearchIncomes() {
	s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-01-31", Amount: 300000, Client: "Globex", Withholding: boolp(true), WithholdingRate: f64p(10.21)})
	s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-02-29", Amount: 50000, Client: "Acme", InvoiceIssued: boolp(true)})
	s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-03-31", Amount: 80000, Client: "Acme"})

	res, err := s.svc.SearchIncomes(s.ctx, s.alice, ledger.IncomeFilter{Client: "Acme"}, ledger.SearchOptions{SortBy: "client", SortOrder: "asc"})
	s.Require().NoError(err)
	s.Equal(2, res.TotalCount)

	res, err = s.svc.SearchIncomes(s.ctx, s.alice, ledger.IncomeFilter{}, ledger.SearchOptions{SortBy: "client", SortOrder: "asc"})
	s.Require().NoError(err)
	s.Require().Len(res.Items, 3)
	s.Equal("Globex", res.Items[2].Client)

	res, err = s.svc.SearchIncomes(s.ctx, s.alice, ledger.IncomeFilter{Withholding: boolp(true)}, ledger.SearchOptions{})
	s.Require().NoError(err)
	s.Require().Len(res.Items, 1)
	s.Equal("Globex", res.Items[0].Client)

	res, err = s.svc.SearchIncomes(s.ctx, s.alice, ledger.IncomeFilter{InvoiceIssued: boolp(false)}, ledger.SearchOptions{})
	s.Require().NoError(err)
	s.Empty(res.Items, "unset flags match neither value")

	res, err = s.svc.SearchIncomes(s.ctx, s.bob, ledger.IncomeFilter{}, ledger.SearchOptions{})
	s.Require().NoError(err)
	s.Empty(res.Items)
}

func (s *LedgerSuite) TestIncomeSummaryAndMonthTotals() {
	s.withholdingIncome()
	s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-02-01", Amount: 7000, Client: "Old"})

	summary, err := s.svc.IncomeSummary(s.ctx, s.alice, "2024-01-01", "2024-12-31")
	s.Require().NoError(err)
	s.Equal(107000.0, summary.TotalAmount)
	s.InDelta(10210, summary.TotalWithholdingAmount, 1e-6)
	s.InDelta(96790, summary.NetAmount, 1e-6)
	s.Equal(1, summary.ClientTotals["Old"].Count)

	totals, err := s.svc.CurrentMonthIncomeTotals(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(100000.0, totals.Total)
	s.InDelta(89790, totals.NetTotal, 1e-6)

	list, err := s.svc.ListIncomes(s.ctx, s.alice, models.IncomeConfirmed, 1)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Old", list[0].Client)

	none, err := s.svc.IncomeSummary(s.ctx, models.Identity{Subject: "stranger"}, "", "")
	s.NoError(err)
	s.Nil(none)
}

func (s *LedgerSuite) TestIncomesBetween() {
	s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-05-01", Amount: 1})
	s.createIncome(s.alice, ledger.IncomeInput{Date: "2024-04-01", Amount: 2})

	got, err := s.svc.IncomesBetween(s.ctx, s.alice, "", "")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("2024-04-01", got[0].Date)
}
