package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/codecraft-dev/codecraft-server/internal/model"
	"github.com/codecraft-dev/codecraft-server/internal/store"
)

// UserService handles identity-to-user resolution and upserts.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

// UpsertUser creates a user on first sign-in observation and patches the
// email on later sign-ins when it changed. At most one write per call;
// repeated calls with the same inputs converge to the same stored state.
func (s *UserService) UpsertUser(ctx context.Context, identityID, email string) (*model.User, error) {
	if identityID == "" {
		return nil, fmt.Errorf("%w: identityId is required", model.ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", model.ErrValidation)
	}

	existing, err := s.store.Users().GetByIdentity(ctx, identityID)
	switch {
	case err == nil:
		if existing.Email != email {
			if err := s.store.Users().UpdateEmail(ctx, existing.UserID, email); err != nil {
				return nil, persistFail(err)
			}
			existing.Email = email
		}
		return existing, nil
	case errors.Is(err, model.ErrNotFound):
		u, err := s.store.Users().Create(ctx, &model.User{IdentityID: identityID, Email: email})
		if err != nil {
			return nil, persistFail(err)
		}
		return u, nil
	default:
		return nil, persistFail(err)
	}
}

// resolveUser maps an identity id to the stored user, reporting
// model.ErrUserNotFound when no user has been observed for it.
func resolveUser(ctx context.Context, s store.Store, identityID string) (*model.User, error) {
	u, err := s.Users().GetByIdentity(ctx, identityID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrUserNotFound
		}
		return nil, persistFail(err)
	}
	return u, nil
}
