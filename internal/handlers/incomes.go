package handlers

import (
	"net/http"

	"freelance-ledger/internal/ledger"
)

// SearchIncomes handles GET /incomes.
func (h *Handlers) SearchIncomes(w http.ResponseWriter, r *http.Request) {
	base, err := parseFilter(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	f := ledger.IncomeFilter{Filter: base, Client: r.URL.Query().Get("client")}
	if f.Withholding, err = queryBool(r, "withholding"); err != nil {
		h.writeError(w, r, err)
		return
	}
	if f.InvoiceIssued, err = queryBool(r, "invoice_issued"); err != nil {
		h.writeError(w, r, err)
		return
	}
	opts, err := parseSearchOptions(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.svc.SearchIncomes(r.Context(), GetIdentity(r), f, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListIncomes handles GET /incomes/recent.
func (h *Handlers) ListIncomes(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.svc.ListIncomes(r.Context(), GetIdentity(r), r.URL.Query().Get("status"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateIncome handles POST /incomes.
func (h *Handlers) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var in ledger.IncomeInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validateIncome(in); err != nil {
		h.writeError(w, r, err)
		return
	}
	id, err := h.svc.CreateIncome(r.Context(), GetIdentity(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// UpdateIncome handles PATCH /incomes/{id}.
func (h *Handlers) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var p ledger.IncomePatch
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
	in, err := h.svc.UpdateIncome(r.Context(), GetIdentity(r), id, p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// DeleteIncome handles DELETE /incomes/{id}.
func (h *Handlers) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteIncome(r.Context(), GetIdentity(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// IncomeSummary handles GET /incomes/summary?from=&to=.
func (h *Handlers) IncomeSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.svc.IncomeSummary(r.Context(), GetIdentity(r), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// CurrentMonthIncomeTotals handles GET /incomes/month-total.
func (h *Handlers) CurrentMonthIncomeTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.CurrentMonthIncomeTotals(r.Context(), GetIdentity(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func validateIncome(in ledger.IncomeInput) error {
	if err := checkDate("date", in.Date); err != nil {
		return err
	}
	if in.CategoryID == "" {
		return badRequest("category_id is required")
	}
	if in.Client == "" {
		return badRequest("client is required")
	}
	if in.ReceivedDate != nil && *in.ReceivedDate != "" {
		return checkDate("received_date", *in.ReceivedDate)
	}
	return nil
}
