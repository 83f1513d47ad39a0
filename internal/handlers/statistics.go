package handlers

import (
	"net/http"
	"strconv"
	"time"

	"freelance-ledger/internal/aggregate"
)

// StatsView is the category breakdown of one month's spending.
type StatsView struct {
	Year           int                       `json:"year"`
	Month          int                       `json:"month"`
	MonthName      string                    `json:"month_name"`
	From           string                    `json:"from"`
	To             string                    `json:"to"`
	Total          float64                   `json:"total"`
	Categories     []aggregate.CategoryShare `json:"categories"`
	PrevYear       int                       `json:"prev_year"`
	PrevMonth      int                       `json:"prev_month"`
	NextYear       int                       `json:"next_year"`
	NextMonth      int                       `json:"next_month"`
	IsCurrentMonth bool                      `json:"is_current_month"`
}

// Statistics handles GET /reports/statistics?year=&month=.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	// Get year and month from query params, default to current month
	now := h.now()
	year := now.Year()
	month := int(now.Month())

	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		year = y
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	from, to := first.Format(time.DateOnly), last.Format(time.DateOnly)

	shares, err := h.svc.CategoryShares(r.Context(), GetIdentity(r), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var total float64
	for _, s := range shares {
		total += s.Total
	}

	prev := first.AddDate(0, -1, 0)
	next := first.AddDate(0, 1, 0)

	writeJSON(w, http.StatusOK, StatsView{
		Year:           year,
		Month:          month,
		MonthName:      time.Month(month).String(),
		From:           from,
		To:             to,
		Total:          total,
		Categories:     shares,
		PrevYear:       prev.Year(),
		PrevMonth:      int(prev.Month()),
		NextYear:       next.Year(),
		NextMonth:      int(next.Month()),
		IsCurrentMonth: year == now.Year() && month == int(now.Month()),
	})
}

// BalanceSummary handles GET /reports/balance?from=&to=.
func (h *Handlers) BalanceSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	summary, err := h.svc.BalanceSummary(r.Context(), GetIdentity(r), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// MonthlyBalances handles GET /reports/monthly?year=&limit=.
func (h *Handlers) MonthlyBalances(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rows, err := h.svc.MonthlyBalances(r.Context(), GetIdentity(r), year, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// YearlyBalances handles GET /reports/yearly?years=.
func (h *Handlers) YearlyBalances(w http.ResponseWriter, r *http.Request) {
	years, err := queryInt(r, "years")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if years > aggregate.MaxYears {
		h.writeError(w, r, badRequest("years must be at most %d", aggregate.MaxYears))
		return
	}
	rows, err := h.svc.YearlyBalances(r.Context(), GetIdentity(r), years)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
