// Package handlers exposes the ledger over a JSON HTTP API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"freelance-ledger/internal/blob"
	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/logging"
	"freelance-ledger/internal/models"
)

// Context key type to avoid collisions.
type contextKey string

// IdentityContextKey is the context key for the caller's identity.
const IdentityContextKey contextKey = "identity"

// Headers set by the authenticating proxy in front of the server.
const (
	HeaderSubject = "X-Auth-Subject"
	HeaderEmail   = "X-Auth-Email"
	HeaderName    = "X-Auth-Name"
)

// FileStore holds receipt bodies written through the upload URL.
type FileStore interface {
	Put(ctx context.Context, storageID string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageID string) (*os.File, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	svc   *ledger.Service
	files FileStore
	log   logging.Logger
	now   func() time.Time
}

// NewHandlers creates a new Handlers instance. files may be nil, in which
// case the file routes answer 503.
func NewHandlers(svc *ledger.Service, files FileStore, log logging.Logger) *Handlers {
	if log == nil {
		log = logging.Discard()
	}
	return &Handlers{svc: svc, files: files, log: log, now: time.Now}
}

// GetIdentity retrieves the caller's identity from request context.
func GetIdentity(r *http.Request) models.Identity {
	if who, ok := r.Context().Value(IdentityContextKey).(models.Identity); ok {
		return who
	}
	return models.Identity{}
}

// IdentityMiddleware puts the proxy-asserted identity into the context.
// Requests without a subject continue anonymously; read routes then return
// empty results and write routes answer 401.
func (h *Handlers) IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who := models.Identity{
			Subject: r.Header.Get(HeaderSubject),
			Email:   r.Header.Get(HeaderEmail),
			Name:    r.Header.Get(HeaderName),
		}
		ctx := context.WithValue(r.Context(), IdentityContextKey, who)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs one line per request.
func (h *Handlers) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []logging.Field{
			logging.F(logging.FieldMethod, r.Method),
			logging.F(logging.FieldPath, r.URL.Path),
			logging.F(logging.FieldStatus, status),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()),
		}
		if id := middleware.GetReqID(r.Context()); id != "" {
			fields = append(fields, logging.F(logging.FieldRequestID, id))
		}
		if status >= http.StatusInternalServerError {
			h.log.Warn("request failed", fields...)
			return
		}
		h.log.Info("request", fields...)
	})
}

// Routes returns the API router. Mount it under /api.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.IdentityMiddleware)

	r.Get("/me", h.CurrentUser)
	r.Post("/me", h.RegisterUser)

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.SearchExpenses)
		r.Post("/", h.CreateExpense)
		r.Get("/recent", h.ListExpenses)
		r.Get("/summary", h.ExpenseSummary)
		r.Get("/month-total", h.CurrentMonthExpenseTotal)
		r.Patch("/{id}", h.UpdateExpense)
		r.Delete("/{id}", h.DeleteExpense)
	})

	r.Route("/incomes", func(r chi.Router) {
		r.Get("/", h.SearchIncomes)
		r.Post("/", h.CreateIncome)
		r.Get("/recent", h.ListIncomes)
		r.Get("/summary", h.IncomeSummary)
		r.Get("/month-total", h.CurrentMonthIncomeTotals)
		r.Patch("/{id}", h.UpdateIncome)
		r.Delete("/{id}", h.DeleteIncome)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/balance", h.BalanceSummary)
		r.Get("/monthly", h.MonthlyBalances)
		r.Get("/yearly", h.YearlyBalances)
		r.Get("/statistics", h.Statistics)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/expense-categories", h.ExpenseCategories)
		r.Get("/expense-categories/{id}", h.ExpenseCategory)
		r.Get("/income-categories", h.IncomeCategories)
		r.Get("/payment-methods", h.PaymentMethods)
		r.Get("/payment-methods/{id}", h.PaymentMethod)
	})

	r.Route("/receipts", func(r chi.Router) {
		r.Post("/", h.SaveReceipt)
		r.Post("/upload-url", h.GenerateUploadURL)
		r.Get("/url", h.ReceiptURL)
	})
	return r
}

// FileRoutes serves receipt bodies. Mount it at the blob base URL.
func (h *Handlers) FileRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.IdentityMiddleware)
	r.Put("/{storageID}", h.PutFile)
	r.Get("/{storageID}", h.GetFile)
	return r
}

// CurrentUser returns the caller's user, or null before registration.
func (h *Handlers) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context(), GetIdentity(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RegisterUser creates or refreshes the caller's user from the identity.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.UpsertUser(r.Context(), GetIdentity(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// errInvalidInput marks errors caused by a malformed request.
var errInvalidInput = errors.New("invalid input")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidInput, fmt.Sprintf(format, args...))
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps ledger errors to status codes. A missing record and a
// record owned by someone else both answer 404.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errInvalidInput), ledger.IsInvalidCursor(err), errors.Is(err, blob.ErrInvalidID):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, ledger.ErrUserNotFound):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, ledger.ErrUnauthorized), errors.Is(err, blob.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, blob.ErrExists):
		status = http.StatusConflict
	case errors.As(err, new(*http.MaxBytesError)):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, ledger.ErrNoBlobStore):
		status = http.StatusServiceUnavailable
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.WithError(err).Error("request error",
			logging.F(logging.FieldMethod, r.Method),
			logging.F(logging.FieldPath, r.URL.Path))
		msg = "internal server error"
	}
	if status == http.StatusNotFound {
		msg = "not found"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request payload: %v", err)
	}
	return nil
}
