package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/models"
)

// ExpenseCategories handles GET /catalog/expense-categories.
func (h *Handlers) ExpenseCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ExpenseCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// ExpenseCategory handles GET /catalog/expense-categories/{id}.
func (h *Handlers) ExpenseCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.ExpenseCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if c == nil {
		h.writeError(w, r, ledger.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// IncomeCategories handles GET /catalog/income-categories.
func (h *Handlers) IncomeCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.IncomeCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// PaymentMethods handles GET /catalog/payment-methods?type=expense|income.
func (h *Handlers) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	switch typ {
	case "", models.MethodExpense, models.MethodIncome, models.MethodBoth:
	default:
		h.writeError(w, r, badRequest("unknown payment method type %q", typ))
		return
	}
	methods, err := h.svc.PaymentMethods(r.Context(), typ)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, methods)
}

// PaymentMethod handles GET /catalog/payment-methods/{id}.
func (h *Handlers) PaymentMethod(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.PaymentMethod(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if m == nil {
		h.writeError(w, r, ledger.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
