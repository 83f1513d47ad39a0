package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"freelance-ledger/internal/ledger"
)

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("%s must be an integer", key)
	}
	return n, nil
}

func queryFloat(r *http.Request, key string) (*float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, badRequest("%s must be a number", key)
	}
	return &f, nil
}

func queryBool(r *http.Request, key string) (*bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, badRequest("%s must be true or false", key)
	}
	return &b, nil
}

func queryDate(r *http.Request, key string) (string, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return "", nil
	}
	if err := checkDate(key, v); err != nil {
		return "", err
	}
	return v, nil
}

func checkDate(field, v string) error {
	if _, err := time.Parse(time.DateOnly, v); err != nil {
		return badRequest("%s must be YYYY-MM-DD, got %q", field, v)
	}
	return nil
}

// dateRange reads the from/to query parameters.
func dateRange(r *http.Request) (from, to string, err error) {
	if from, err = queryDate(r, "from"); err != nil {
		return "", "", err
	}
	if to, err = queryDate(r, "to"); err != nil {
		return "", "", err
	}
	return from, to, nil
}

func parseFilter(r *http.Request) (ledger.Filter, error) {
	q := r.URL.Query()
	f := ledger.Filter{
		Text:        q.Get("q"),
		CategoryID:  q.Get("category_id"),
		Status:      q.Get("status"),
		ProjectCode: q.Get("project_code"),
	}
	var err error
	if f.DateFrom, err = queryDate(r, "date_from"); err != nil {
		return f, err
	}
	if f.DateTo, err = queryDate(r, "date_to"); err != nil {
		return f, err
	}
	if f.AmountMin, err = queryFloat(r, "amount_min"); err != nil {
		return f, err
	}
	if f.AmountMax, err = queryFloat(r, "amount_max"); err != nil {
		return f, err
	}
	return f, nil
}

func parseSearchOptions(r *http.Request) (ledger.SearchOptions, error) {
	q := r.URL.Query()
	limit, err := queryInt(r, "limit")
	if err != nil {
		return ledger.SearchOptions{}, err
	}
	return ledger.SearchOptions{
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Cursor:    q.Get("cursor"),
		Limit:     limit,
	}, nil
}
