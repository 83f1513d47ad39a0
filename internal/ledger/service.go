// Package ledger implements the bookkeeping operations: recording expenses
// and incomes, searching them, and producing summaries and balance reports.
//
// Every operation acts for a models.Identity. Read paths return empty
// results for callers without a resolvable user; write paths fail with
// ErrUnauthenticated or ErrUserNotFound.
package ledger

import (
	"context"
	"time"

	"freelance-ledger/internal/aggregate"
	"freelance-ledger/internal/logging"
	"freelance-ledger/internal/models"
	"freelance-ledger/internal/query"
)

// DefaultReportYears is the number of years in a yearly report.
const DefaultReportYears = 3

// Service is the ledger core.
type Service struct {
	store       Store
	blobs       BlobStore
	log         logging.Logger
	now         func() time.Time
	searchLimit int
	listLimit   int
	reportYears int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBlobStore enables receipt uploads.
func WithBlobStore(b BlobStore) Option {
	return func(s *Service) { s.blobs = b }
}

// WithLimits sets the default page sizes for search and list calls.
// Non-positive values keep the defaults.
func WithLimits(search, list int) Option {
	return func(s *Service) {
		if search > 0 {
			s.searchLimit = search
		}
		if list > 0 {
			s.listLimit = list
		}
	}
}

// WithReportYears sets the default length of yearly reports.
func WithReportYears(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.reportYears = min(n, aggregate.MaxYears)
		}
	}
}

// New returns a Service backed by store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		log:         logging.Discard(),
		now:         time.Now,
		searchLimit: query.DefaultSearchLimit,
		listLimit:   query.DefaultListLimit,
		reportYears: DefaultReportYears,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lookupUser resolves the caller's user row. It returns nil without error
// when the caller is anonymous or unknown.
func (s *Service) lookupUser(ctx context.Context, who models.Identity) (*models.User, error) {
	if !who.Authenticated() {
		return nil, nil
	}
	return s.store.UserByExternalID(ctx, who.Subject)
}

// requireUser resolves the caller for a write.
func (s *Service) requireUser(ctx context.Context, who models.Identity, op, entity string) (*models.User, error) {
	if !who.Authenticated() {
		return nil, opErr(op, entity, 0, ErrUnauthenticated)
	}
	user, err := s.store.UserByExternalID(ctx, who.Subject)
	if err != nil {
		return nil, opErr(op, entity, 0, err)
	}
	if user == nil {
		return nil, opErr(op, entity, 0, ErrUserNotFound)
	}
	return user, nil
}

// owner checks that the caller owns a record with the given owner id.
// Callers look the record up first so a missing record reports ErrNotFound.
func (s *Service) owner(ctx context.Context, who models.Identity, ownerID int64, op, entity string, id int64) (*models.User, error) {
	user, err := s.store.UserByExternalID(ctx, who.Subject)
	if err != nil {
		return nil, opErr(op, entity, id, err)
	}
	if user == nil || user.ID != ownerID {
		s.log.Warn("ownership check failed",
			logging.F(logging.FieldOperation, op),
			logging.F(logging.FieldEntity, entity),
			logging.F(logging.FieldRecordID, id),
			logging.F(logging.FieldSubject, who.Subject))
		return nil, opErr(op, entity, id, ErrUnauthorized)
	}
	return user, nil
}

func (s *Service) logMutation(op, entity string, userID, id int64) {
	s.log.Info(op+" "+entity,
		logging.F(logging.FieldOperation, op),
		logging.F(logging.FieldEntity, entity),
		logging.F(logging.FieldUserID, userID),
		logging.F(logging.FieldRecordID, id))
}

// monthStart is the first day of the current month as YYYY-MM-DD.
func (s *Service) monthStart() string {
	now := s.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(time.DateOnly)
}
