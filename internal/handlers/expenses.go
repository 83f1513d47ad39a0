package handlers

import (
	"net/http"

	"freelance-ledger/internal/ledger"
)

type createdResponse struct {
	ID int64 `json:"id"`
}

// SearchExpenses handles GET /expenses.
func (h *Handlers) SearchExpenses(w http.ResponseWriter, r *http.Request) {
	base, err := parseFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	f := ledger.ExpenseFilter{Filter: base, PaymentMethodID: r.URL.Query().Get("payment_method_id")}
	if f.HasReceipt, err = queryBool(r, "has_receipt"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if f.IsDeductible, err = queryBool(r, "is_deductible"); err != nil {
		h.writeError(w, r, err)
		return
	}
	opts, err := parseSearchOptions(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.SearchExpenses(r.Context(), GetIdentity(r), f, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListExpenses handles GET /expenses/recent.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.svc.ListExpenses(r.Context(), GetIdentity(r), r.URL.Query().Get("status"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateExpense handles POST /expenses.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var in ledger.ExpenseInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validateExpense(in); err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := h.svc.CreateExpense(r.Context(), GetIdentity(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// UpdateExpense handles PATCH /expenses/{id}. Absent fields are kept and
// null clears an optional field.
func (h *Handlers) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var p ledger.ExpensePatch
	if err := decodeJSON(r, &p); err != nil {
		h.writeError(w, r, err)
		return
	}
	if v, ok := p.Date.Value(); ok {
		if err := checkDate("date", v); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	e, err := h.svc.UpdateExpense(r.Context(), GetIdentity(r), id, p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteExpense handles DELETE /expenses/{id}.
func (h *Handlers) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteExpense(r.Context(), GetIdentity(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExpenseSummary handles GET /expenses/summary?from=&to=.
func (h *Handlers) ExpenseSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.svc.ExpenseSummary(r.Context(), GetIdentity(r), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type totalResponse struct {
	Total float64 `json:"total"`
}

// CurrentMonthExpenseTotal handles GET /expenses/month-total.
func (h *Handlers) CurrentMonthExpenseTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.CurrentMonthExpenseTotal(r.Context(), GetIdentity(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totalResponse{Total: total})
}

func validateExpense(in ledger.ExpenseInput) error {
	if err := checkDate("date", in.Date); err != nil {
		return err
	}
	if in.CategoryID == "" {
		return badRequest("category_id is required")
	}
	if in.Vendor == "" {
		return badRequest("vendor is required")
	}
	return nil
}
