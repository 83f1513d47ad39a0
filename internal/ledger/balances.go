package ledger

import (
	"context"

	"freelance-ledger/internal/aggregate"
	"freelance-ledger/internal/models"
)

// BalanceSummary combines the caller's incomes and expenses in [from, to].
// It returns nil for an unknown caller.
func (s *Service) BalanceSummary(ctx context.Context, who models.Identity, from, to string) (*aggregate.BalanceSummary, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return nil, err
	}
	incomes, expenses, err := s.loadBoth(ctx, user.ID, from, to)
	if err != nil {
		return nil, err
	}
	summary := aggregate.Balance(incomes, expenses)
	return &summary, nil
}

// MonthlyBalances returns the twelve months of year (the current year when
// zero), truncated to the first limit months when limit is positive.
func (s *Service) MonthlyBalances(ctx context.Context, who models.Identity, year, limit int) ([]aggregate.Period, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return []aggregate.Period{}, err
	}
	if year <= 0 {
		year = s.now().Year()
	}
	from, to := aggregate.YearRange(year)
	incomes, expenses, err := s.loadBoth(ctx, user.ID, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.MonthlyBalances(year, incomes, expenses, limit), nil
}

// YearlyBalances returns one row per year for the last years years, newest
// first. A non-positive years uses the configured default.
func (s *Service) YearlyBalances(ctx context.Context, who models.Identity, years int) ([]aggregate.Period, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return []aggregate.Period{}, err
	}
	if years <= 0 {
		years = s.reportYears
	}
	years = min(years, aggregate.MaxYears)
	current := s.now().Year()
	from, _ := aggregate.YearRange(current - years + 1)
	_, to := aggregate.YearRange(current)
	incomes, expenses, err := s.loadBoth(ctx, user.ID, from, to)
	if err != nil {
		return nil, err
	}
	return aggregate.YearlyBalances(current, years, incomes, expenses), nil
}

// CategoryShares breaks the caller's spending in [from, to] down by
// category, largest first.
func (s *Service) CategoryShares(ctx context.Context, who models.Identity, from, to string) ([]aggregate.CategoryShare, error) {
	summary, err := s.ExpenseSummary(ctx, who, from, to)
	if err != nil || summary == nil {
		return []aggregate.CategoryShare{}, err
	}
	return aggregate.Shares(summary.CategoryTotals), nil
}

func (s *Service) loadBoth(ctx context.Context, userID int64, from, to string) ([]models.Income, []models.Expense, error) {
	incomes, err := s.store.IncomesByUser(ctx, userID, from, to)
	if err != nil {
		return nil, nil, opErr("load", entityIncome, 0, err)
	}
	expenses, err := s.store.ExpensesByUser(ctx, userID, from, to)
	if err != nil {
		return nil, nil, opErr("load", entityExpense, 0, err)
	}
	return incomes, expenses, nil
}
