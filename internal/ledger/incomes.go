package ledger

import (
	"context"
	"slices"

	"freelance-ledger/internal/aggregate"
	"freelance-ledger/internal/models"
	"freelance-ledger/internal/query"
	"freelance-ledger/internal/taxcalc"
)

// CreateIncome records a new income. Its status is received when a
// received date is given and confirmed otherwise.
func (s *Service) CreateIncome(ctx context.Context, who models.Identity, in IncomeInput) (int64, error) {
	const op = "create"
	user, err := s.requireUser(ctx, who, op, entityIncome)
	if err != nil {
		return 0, err
	}

	status := models.IncomeConfirmed
	if in.ReceivedDate != nil && *in.ReceivedDate != "" {
		status = models.IncomeReceived
	}
	now := s.now().UTC()
	inc := &models.Income{
		UserID:            user.ID,
		Date:              in.Date,
		Amount:            in.Amount,
		CategoryID:        in.CategoryID,
		Client:            in.Client,
		Description:       in.Description,
		ProjectName:       in.ProjectName,
		PaymentMethodID:   in.PaymentMethodID,
		Withholding:       in.Withholding,
		WithholdingAmount: taxcalc.DeriveWithholding(in.Amount, in.Withholding, in.WithholdingAmount, in.WithholdingRate),
		WithholdingRate:   in.WithholdingRate,
		InvoiceNumber:     in.InvoiceNumber,
		InvoiceIssued:     in.InvoiceIssued,
		InvoiceDate:       in.InvoiceDate,
		TaxRate:           in.TaxRate,
		ProjectCode:       in.ProjectCode,
		Status:            status,
		ReceivedDate:      in.ReceivedDate,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	applyTax(&inc.TaxAmount, &inc.TaxExcludedAmount, inc.Amount, inc.TaxRate)

	if err := s.store.InsertIncome(ctx, inc); err != nil {
		return 0, opErr(op, entityIncome, 0, err)
	}
	s.logMutation(op, entityIncome, user.ID, inc.ID)
	return inc.ID, nil
}

// UpdateIncome applies a partial update and recomputes tax and withholding
// from the merged record.
//
// An explicit withholding amount in the patch is stored as given. Otherwise,
// when the amount, flag or rate changes, withholding is recomputed; if that
// yields nothing the stored amount is kept, unless the patch turned the flag
// off or cleared the rate or the amount itself.
func (s *Service) UpdateIncome(ctx context.Context, who models.Identity, id int64, p IncomePatch) (*models.Income, error) {
	const op = "update"
	if !who.Authenticated() {
		return nil, opErr(op, entityIncome, id, ErrUnauthenticated)
	}
	inc, err := s.store.Income(ctx, id)
	if err != nil {
		return nil, opErr(op, entityIncome, id, err)
	}
	if inc == nil {
		return nil, opErr(op, entityIncome, id, ErrNotFound)
	}
	user, err := s.owner(ctx, who, inc.UserID, op, entityIncome, id)
	if err != nil {
		return nil, err
	}

	p.Date.Apply(&inc.Date)
	p.Amount.Apply(&inc.Amount)
	p.CategoryID.Apply(&inc.CategoryID)
	p.Client.Apply(&inc.Client)
	p.Description.ApplyPtr(&inc.Description)
	p.ProjectName.ApplyPtr(&inc.ProjectName)
	p.PaymentMethodID.ApplyPtr(&inc.PaymentMethodID)
	p.Withholding.ApplyPtr(&inc.Withholding)
	p.WithholdingRate.ApplyPtr(&inc.WithholdingRate)
	p.InvoiceNumber.ApplyPtr(&inc.InvoiceNumber)
	p.InvoiceIssued.ApplyPtr(&inc.InvoiceIssued)
	p.InvoiceDate.ApplyPtr(&inc.InvoiceDate)
	p.TaxRate.ApplyPtr(&inc.TaxRate)
	p.ProjectCode.ApplyPtr(&inc.ProjectCode)
	p.Status.Apply(&inc.Status)
	p.ReceivedDate.ApplyPtr(&inc.ReceivedDate)

	if p.Amount.Present() || p.TaxRate.Present() {
		applyTax(&inc.TaxAmount, &inc.TaxExcludedAmount, inc.Amount, inc.TaxRate)
	}

	if v, ok := p.WithholdingAmount.Value(); ok {
		inc.WithholdingAmount = &v
	} else if p.WithholdingAmount.Cleared() || p.Amount.Present() || p.Withholding.Present() || p.WithholdingRate.Present() {
		w := taxcalc.DeriveWithholding(inc.Amount, inc.Withholding, nil, inc.WithholdingRate)
		switch {
		case w != nil:
			inc.WithholdingAmount = w
		case p.WithholdingAmount.Cleared(), p.WithholdingRate.Cleared(), p.Withholding.Present() && !flagEquals(inc.Withholding, true):
			inc.WithholdingAmount = nil
		}
	}
	inc.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateIncome(ctx, inc); err != nil {
		return nil, opErr(op, entityIncome, id, err)
	}
	s.logMutation(op, entityIncome, user.ID, id)
	return inc, nil
}

// DeleteIncome removes an income.
func (s *Service) DeleteIncome(ctx context.Context, who models.Identity, id int64) error {
	const op = "delete"
	if !who.Authenticated() {
		return opErr(op, entityIncome, id, ErrUnauthenticated)
	}
	inc, err := s.store.Income(ctx, id)
	if err != nil {
		return opErr(op, entityIncome, id, err)
	}
	if inc == nil {
		return opErr(op, entityIncome, id, ErrNotFound)
	}
	user, err := s.owner(ctx, who, inc.UserID, op, entityIncome, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return opErr(op, entityIncome, id, err)
	}
	s.logMutation(op, entityIncome, user.ID, id)
	return nil
}

// SearchIncomes filters, sorts and pages the caller's incomes. The sort key
// for the counterparty is "client".
func (s *Service) SearchIncomes(ctx context.Context, who models.Identity, f IncomeFilter, opts SearchOptions) (query.Result[models.Income], error) {
	empty := query.Result[models.Income]{Items: []models.Income{}}
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return empty, err
	}

	incomes, err := s.store.IncomesByUser(ctx, user.ID, f.DateFrom, f.DateTo)
	if err != nil {
		return empty, opErr("search", entityIncome, 0, err)
	}

	page := query.Page{Cursor: opts.Cursor, Limit: s.limit(opts.Limit, s.searchLimit)}
	res, err := query.Run(incomes, f.criteria(), query.ParseSort(opts.SortBy, "client", opts.SortOrder), page)
	if err != nil {
		return empty, opErr("search", entityIncome, 0, err)
	}
	return res, nil
}

// ListIncomes returns the caller's most recently created incomes,
// optionally restricted to one status.
func (s *Service) ListIncomes(ctx context.Context, who models.Identity, status string, limit int) ([]models.Income, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return []models.Income{}, err
	}
	incomes, err := s.store.IncomesByUser(ctx, user.ID, "", "")
	if err != nil {
		return nil, opErr("list", entityIncome, 0, err)
	}

	slices.Reverse(incomes)
	if status != "" {
		incomes = slices.DeleteFunc(incomes, func(in models.Income) bool { return in.Status != status })
	}
	if n := s.limit(limit, s.listLimit); len(incomes) > n {
		incomes = incomes[:n]
	}
	return incomes, nil
}

// IncomeSummary totals the caller's incomes in [from, to]. It returns nil
// for an unknown caller.
func (s *Service) IncomeSummary(ctx context.Context, who models.Identity, from, to string) (*aggregate.IncomeSummary, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return nil, err
	}
	incomes, err := s.store.IncomesByUser(ctx, user.ID, from, to)
	if err != nil {
		return nil, opErr("summarize", entityIncome, 0, err)
	}
	summary := aggregate.SummarizeIncomes(incomes)
	return &summary, nil
}

// CurrentMonthIncomeTotals sums the caller's incomes dated on or after the
// first of the current month.
func (s *Service) CurrentMonthIncomeTotals(ctx context.Context, who models.Identity) (aggregate.IncomeTotals, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return aggregate.IncomeTotals{}, err
	}
	incomes, err := s.store.IncomesByUser(ctx, user.ID, s.monthStart(), "")
	if err != nil {
		return aggregate.IncomeTotals{}, opErr("total", entityIncome, 0, err)
	}
	return aggregate.SumIncomes(incomes), nil
}

// IncomesBetween returns the caller's incomes in [from, to] by date, oldest
// first.
func (s *Service) IncomesBetween(ctx context.Context, who models.Identity, from, to string) ([]models.Income, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return []models.Income{}, err
	}
	incomes, err := s.store.IncomesByUser(ctx, user.ID, from, to)
	if err != nil {
		return nil, opErr("export", entityIncome, 0, err)
	}
	query.SortRecords(incomes, query.Sort{Key: query.SortDate})
	return incomes, nil
}
