package ledger_test

import "freelance-ledger/internal/models"

func (s *LedgerSuite) TestInitializeCatalogIsIdempotent() {
	seeded, err := s.svc.InitializeExpenseCategories(s.ctx)
	s.Require().NoError(err)
	s.True(seeded)

	seeded, err = s.svc.InitializeExpenseCategories(s.ctx)
	s.Require().NoError(err)
	s.False(seeded)
	s.True(s.log.HasEntry("DEBUG", "catalog already initialized"))

	s.Require().NoError(s.svc.InitializeCatalog(s.ctx))
	s.Require().NoError(s.svc.InitializeCatalog(s.ctx))

	cats, err := s.svc.ExpenseCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(cats, 8)
	s.Equal("EXP001", cats[0].CategoryID)
	s.Equal("EXP999", cats[len(cats)-1].CategoryID)

	incomes, err := s.svc.IncomeCategories(s.ctx)
	s.Require().NoError(err)
	s.Len(incomes, 14)
}

func (s *LedgerSuite) TestCatalogLookups() {
	s.Require().NoError(s.svc.InitializeCatalog(s.ctx))

	c, err := s.svc.ExpenseCategory(s.ctx, "EXP004")
	s.Require().NoError(err)
	s.Require().NotNil(c)
	s.Equal("通信費", c.Name)

	c, err = s.svc.ExpenseCategory(s.ctx, "EXP404")
	s.NoError(err)
	s.Nil(c)

	m, err := s.svc.PaymentMethod(s.ctx, "PM007")
	s.Require().NoError(err)
	s.Equal("PayPay", m.Name)
}

func (s *LedgerSuite) TestPaymentMethodsByType() {
	s.Require().NoError(s.svc.InitializeCatalog(s.ctx))

	all, err := s.svc.PaymentMethods(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 8)

	income, err := s.svc.PaymentMethods(s.ctx, models.MethodIncome)
	s.Require().NoError(err)
	ids := make([]string, len(income))
	for i, m := range income {
		ids[i] = m.MethodID
	}
	s.Equal([]string{"PM001", "PM004", "PM008"}, ids)

	expense, err := s.svc.PaymentMethods(s.ctx, models.MethodExpense)
	s.Require().NoError(err)
	s.Len(expense, 8)
}
