package ledger_test

import (
	"context"
	"time"

	"freelance-ledger/internal/ledger"
	"freelance-ledger/internal/models"
)

func (s *LedgerSuite) TestUpsertUserCreatesOnce() {
	first, err := s.svc.CurrentUser(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Require().NotNil(first)
	s.Equal("alice@example.com", first.Email)

	again, err := s.svc.UpsertUser(s.ctx, s.alice)
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)
	s.True(s.log.HasEntry("INFO", "user created"))
}

func (s *LedgerSuite) TestUpsertUserRefreshesProfile() {
	s.now = s.now.Add(time.Hour)
	u, err := s.svc.UpsertUser(s.ctx, models.Identity{Subject: "alice", Email: "new@example.com"})
	s.Require().NoError(err)
	s.Equal("new@example.com", u.Email)
	s.Equal("Alice", u.Name, "empty name keeps the stored one")
	s.True(s.now.Equal(u.UpdatedAt))
}

func (s *LedgerSuite) TestUpsertUserRequiresIdentity() {
	_, err := s.svc.UpsertUser(s.ctx, models.Identity{})
	s.ErrorIs(err, ledger.ErrUnauthenticated)
}

func (s *LedgerSuite) TestCurrentUserUnknown() {
	u, err := s.svc.CurrentUser(s.ctx, models.Identity{Subject: "nobody"})
	s.NoError(err)
	s.Nil(u)

	u, err = s.svc.CurrentUser(s.ctx, models.Identity{})
	s.NoError(err)
	s.Nil(u)
}

// racingStore inserts a competing row for the same subject right before
// the service's own insert, as a concurrent first sign-in would.
type racingStore struct {
	ledger.Store
}

func (r racingStore) CreateUser(ctx context.Context, u *models.User) error {
	other := *u
	other.Email = "other-tab@example.com"
	if err := r.Store.CreateUser(ctx, &other); err != nil {
		return err
	}
	return r.Store.CreateUser(ctx, u)
}

func (s *LedgerSuite) TestUpsertUserConcurrentFirstSignIn() {
	svc := ledger.New(racingStore{Store: s.db}, ledger.WithClock(func() time.Time { return s.now }))
	carol := models.Identity{Subject: "carol", Email: "carol@example.com"}

	u, err := svc.UpsertUser(s.ctx, carol)
	s.Require().NoError(err)
	s.Equal("carol@example.com", u.Email)

	stored, err := s.svc.CurrentUser(s.ctx, carol)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal(stored.ID, u.ID)
	s.Equal("carol@example.com", stored.Email)
}
