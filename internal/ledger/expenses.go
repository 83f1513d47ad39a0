package ledger

import (
	"context"
	"errors"
	"slices"

	"freelance-ledger/internal/aggregate"
	"freelance-ledger/internal/models"
	"freelance-ledger/internal/query"
	"freelance-ledger/internal/taxcalc"
)

// CreateExpense records a new draft expense and links the optional receipt.
// The receipt link is a second write; a failure there leaves the expense
// in place and is reported to the caller.
func (s *Service) CreateExpense(ctx context.Context, who models.Identity, in ExpenseInput) (int64, error) {
	const op = "create"
	user, err := s.requireUser(ctx, who, op, entityExpense)
	if err != nil {
		return 0, err
	}

	if in.ReceiptID != nil {
		r, err := s.store.Receipt(ctx, *in.ReceiptID)
		if err != nil {
			return 0, opErr(op, entityReceipt, *in.ReceiptID, err)
		}
		if r == nil || r.UserID != user.ID {
			return 0, opErr(op, entityReceipt, *in.ReceiptID, ErrNotFound)
		}
	}

	deductible := true
	if in.IsDeductible != nil {
		deductible = *in.IsDeductible
	}
	now := s.now().UTC()
	e := &models.Expense{
		UserID:          user.ID,
		ReceiptID:       in.ReceiptID,
		Date:            in.Date,
		Amount:          in.Amount,
		CategoryID:      in.CategoryID,
		Vendor:          in.Vendor,
		Description:     in.Description,
		Purpose:         in.Purpose,
		PaymentMethodID: in.PaymentMethodID,
		TaxRate:         in.TaxRate,
		InvoiceNumber:   in.InvoiceNumber,
		InvoiceDate:     in.InvoiceDate,
		ProjectCode:     in.ProjectCode,
		IsDeductible:    &deductible,
		Status:          models.ExpenseDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	applyTax(&e.TaxAmount, &e.TaxExcludedAmount, e.Amount, e.TaxRate)

	if err := s.store.InsertExpense(ctx, e); err != nil {
		return 0, opErr(op, entityExpense, 0, err)
	}
	if in.ReceiptID != nil {
		if err := s.store.SetReceiptExpense(ctx, *in.ReceiptID, &e.ID); err != nil {
			s.log.WithError(err).Error("link receipt failed")
			return e.ID, opErr("link", entityReceipt, *in.ReceiptID, err)
		}
	}

	s.logMutation(op, entityExpense, user.ID, e.ID)
	return e.ID, nil
}

// UpdateExpense applies a partial update. Tax is recomputed from the merged
// amount and rate whenever either is in the patch.
func (s *Service) UpdateExpense(ctx context.Context, who models.Identity, id int64, p ExpensePatch) (*models.Expense, error) {
	const op = "update"
	if !who.Authenticated() {
		return nil, opErr(op, entityExpense, id, ErrUnauthenticated)
	}
	e, err := s.store.Expense(ctx, id)
	if err != nil {
		return nil, opErr(op, entityExpense, id, err)
	}
	if e == nil {
		return nil, opErr(op, entityExpense, id, ErrNotFound)
	}
	user, err := s.owner(ctx, who, e.UserID, op, entityExpense, id)
	if err != nil {
		return nil, err
	}

	p.Date.Apply(&e.Date)
	p.Amount.Apply(&e.Amount)
	p.CategoryID.Apply(&e.CategoryID)
	p.Vendor.Apply(&e.Vendor)
	p.Description.ApplyPtr(&e.Description)
	p.Purpose.ApplyPtr(&e.Purpose)
	p.PaymentMethodID.ApplyPtr(&e.PaymentMethodID)
	p.TaxRate.ApplyPtr(&e.TaxRate)
	p.InvoiceNumber.ApplyPtr(&e.InvoiceNumber)
	p.InvoiceDate.ApplyPtr(&e.InvoiceDate)
	p.ProjectCode.ApplyPtr(&e.ProjectCode)
	p.IsDeductible.ApplyPtr(&e.IsDeductible)
	p.Status.Apply(&e.Status)

	if p.Amount.Present() || p.TaxRate.Present() {
		applyTax(&e.TaxAmount, &e.TaxExcludedAmount, e.Amount, e.TaxRate)
	}
	e.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return nil, opErr(op, entityExpense, id, err)
	}
	s.logMutation(op, entityExpense, user.ID, id)
	return e, nil
}

// DeleteExpense removes an expense. A linked receipt is kept and its
// back-reference cleared first.
func (s *Service) DeleteExpense(ctx context.Context, who models.Identity, id int64) error {
	const op = "delete"
	if !who.Authenticated() {
		return opErr(op, entityExpense, id, ErrUnauthenticated)
	}
	e, err := s.store.Expense(ctx, id)
	if err != nil {
		return opErr(op, entityExpense, id, err)
	}
	if e == nil {
		return opErr(op, entityExpense, id, ErrNotFound)
	}
	user, err := s.owner(ctx, who, e.UserID, op, entityExpense, id)
	if err != nil {
		return err
	}

	if e.ReceiptID != nil {
		r, err := s.store.Receipt(ctx, *e.ReceiptID)
		if err != nil {
			return opErr(op, entityReceipt, *e.ReceiptID, err)
		}
		if r != nil {
			if err := s.store.SetReceiptExpense(ctx, r.ID, nil); err != nil {
				return opErr("unlink", entityReceipt, r.ID, err)
			}
		}
	}

	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return opErr(op, entityExpense, id, err)
	}
	s.logMutation(op, entityExpense, user.ID, id)
	return nil
}

// SearchExpenses filters, sorts and pages the caller's expenses. The sort
// key for the counterparty is "vendor".
func (s *Service) SearchExpenses(ctx context.Context, who models.Identity, f ExpenseFilter, opts SearchOptions) (query.Result[models.ExpenseWithReceipt], error) {
	empty := query.Result[models.ExpenseWithReceipt]{Items: []models.ExpenseWithReceipt{}}
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return empty, err
	}

	expenses, err := s.store.ExpensesByUser(ctx, user.ID, f.DateFrom, f.DateTo)
	if err != nil {
		return empty, opErr("search", entityExpense, 0, err)
	}

	page := query.Page{Cursor: opts.Cursor, Limit: s.limit(opts.Limit, s.searchLimit)}
	res, err := query.Run(expenses, f.criteria(), query.ParseSort(opts.SortBy, "vendor", opts.SortOrder), page)
	if err != nil {
		return empty, opErr("search", entityExpense, 0, err)
	}

	items, err := s.withReceipts(ctx, res.Items)
	if err != nil {
		return empty, err
	}
	return query.Result[models.ExpenseWithReceipt]{
		Items:      items,
		HasMore:    res.HasMore,
		NextCursor: res.NextCursor,
		TotalCount: res.TotalCount,
		Scanned:    res.Scanned,
	}, nil
}

// ListExpenses returns the caller's most recently created expenses,
// optionally restricted to one status.
func (s *Service) ListExpenses(ctx context.Context, who models.Identity, status string, limit int) ([]models.ExpenseWithReceipt, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return []models.ExpenseWithReceipt{}, err
	}
	expenses, err := s.store.ExpensesByUser(ctx, user.ID, "", "")
	if err != nil {
		return nil, opErr("list", entityExpense, 0, err)
	}

	slices.Reverse(expenses)
	if status != "" {
		expenses = slices.DeleteFunc(expenses, func(e models.Expense) bool { return e.Status != status })
	}
	if n := s.limit(limit, s.listLimit); len(expenses) > n {
		expenses = expenses[:n]
	}
	return s.withReceipts(ctx, expenses)
}

// ExpenseSummary totals the caller's expenses in [from, to]. It returns
// nil for an unknown caller.
func (s *Service) ExpenseSummary(ctx context.Context, who models.Identity, from, to string) (*aggregate.ExpenseSummary, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return nil, err
	}
	expenses, err := s.store.ExpensesByUser(ctx, user.ID, from, to)
	if err != nil {
		return nil, opErr("summarize", entityExpense, 0, err)
	}
	summary := aggregate.SummarizeExpenses(expenses)
	return &summary, nil
}

// CurrentMonthExpenseTotal sums the caller's expenses dated on or after
// the first of the current month.
func (s *Service) CurrentMonthExpenseTotal(ctx context.Context, who models.Identity) (float64, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return 0, err
	}
	expenses, err := s.store.ExpensesByUser(ctx, user.ID, s.monthStart(), "")
	if err != nil {
		return 0, opErr("total", entityExpense, 0, err)
	}
	return aggregate.SumExpenses(expenses), nil
}

// ExpensesBetween returns the caller's expenses in [from, to] by date,
// oldest first. Exports use it.
func (s *Service) ExpensesBetween(ctx context.Context, who models.Identity, from, to string) ([]models.Expense, error) {
	user, err := s.lookupUser(ctx, who)
	if err != nil || user == nil {
		return []models.Expense{}, err
	}
	expenses, err := s.store.ExpensesByUser(ctx, user.ID, from, to)
	if err != nil {
		return nil, opErr("export", entityExpense, 0, err)
	}
	query.SortRecords(expenses, query.Sort{Key: query.SortDate})
	return expenses, nil
}

func (s *Service) withReceipts(ctx context.Context, expenses []models.Expense) ([]models.ExpenseWithReceipt, error) {
	out := make([]models.ExpenseWithReceipt, len(expenses))
	for i, e := range expenses {
		out[i].Expense = e
		if e.ReceiptID == nil {
			continue
		}
		r, err := s.store.Receipt(ctx, *e.ReceiptID)
		if err != nil {
			return nil, opErr("load", entityReceipt, *e.ReceiptID, err)
		}
		out[i].Receipt = r
	}
	return out, nil
}

// limit picks the page size, capped at query.MaxLimit.
func (s *Service) limit(requested, fallback int) int {
	if requested > 0 {
		return min(requested, query.MaxLimit)
	}
	return fallback
}

// applyTax stores the tax split for amount at rate, or clears it when the
// rate does not produce tax.
func applyTax(tax, excluded **float64, amount float64, rate *float64) {
	b, ok := taxcalc.Derive(amount, rate)
	if !ok {
		*tax, *excluded = nil, nil
		return
	}
	*tax, *excluded = &b.Tax, &b.TaxExcluded
}

// IsInvalidCursor reports whether err came from a malformed page cursor.
func IsInvalidCursor(err error) bool {
	return errors.Is(err, query.ErrInvalidCursor)
}
