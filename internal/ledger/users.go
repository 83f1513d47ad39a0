package ledger

import (
	"context"

	"freelance-ledger/internal/logging"
	"freelance-ledger/internal/models"
)

// UpsertUser creates the caller's user on first sign-in and refreshes the
// email and name afterwards.
func (s *Service) UpsertUser(ctx context.Context, who models.Identity) (*models.User, error) {
	const op = "upsert"
	if !who.Authenticated() {
		return nil, opErr(op, entityUser, 0, ErrUnauthenticated)
	}

	user, err := s.store.UserByExternalID(ctx, who.Subject)
	if err != nil {
		return nil, opErr(op, entityUser, 0, err)
	}
	now := s.now().UTC()

	if user == nil {
		user = &models.User{
			ExternalID: who.Subject,
			Email:      who.Email,
			Name:       who.Name,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		err := s.store.CreateUser(ctx, user)
		if err == nil {
			s.log.Info("user created",
				logging.F(logging.FieldUserID, user.ID),
				logging.F(logging.FieldSubject, who.Subject))
			return user, nil
		}
		// A concurrent first sign-in may have inserted the row; the unique
		// external id makes ours fail. Fall through to the refresh path.
		existing, lerr := s.store.UserByExternalID(ctx, who.Subject)
		if lerr != nil || existing == nil {
			return nil, opErr(op, entityUser, 0, err)
		}
		user = existing
	}

	changed := false
	if who.Email != "" && who.Email != user.Email {
		user.Email, changed = who.Email, true
	}
	if who.Name != "" && who.Name != user.Name {
		user.Name, changed = who.Name, true
	}
	if !changed {
		return user, nil
	}
	user.UpdatedAt = now
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, opErr(op, entityUser, user.ID, err)
	}
	return user, nil
}

// CurrentUser returns the caller's user, or nil when there is none.
func (s *Service) CurrentUser(ctx context.Context, who models.Identity) (*models.User, error) {
	return s.lookupUser(ctx, who)
}
