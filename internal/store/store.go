package store

import (
	"context"

	"github.com/codecraft-dev/codecraft-server/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres, sqlite).
// Adapters translate driver-level "no rows" conditions into model.ErrNotFound.
type Store interface {
	Users() Users
	Reviews() Reviews
	SavedReviews() SavedReviews
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByIdentity(ctx context.Context, identityID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateEmail(ctx context.Context, userID, email string) error
}

type Reviews interface {
	// Upsert inserts a review or, when one already exists for
	// (UserID, RepoName), replaces its URL and payload and refreshes the
	// timestamp. The stored review keeps its original ReviewID either way.
	Upsert(ctx context.Context, r *model.Review) (*model.Review, error)
	GetByID(ctx context.Context, reviewID string) (*model.Review, error)
	GetByUserAndRepo(ctx context.Context, userID, repoName string) (*model.Review, error)
	// List returns all of a user's reviews, newest first.
	List(ctx context.Context, userID string) ([]*model.Review, error)
	// GetByIDs batch-fetches reviews; ids that do not resolve are omitted.
	GetByIDs(ctx context.Context, reviewIDs []string) ([]*model.Review, error)
}

type SavedReviews interface {
	Create(ctx context.Context, s *model.SavedReview) (*model.SavedReview, error)
	Get(ctx context.Context, userID, reviewID string) (*model.SavedReview, error)
	Delete(ctx context.Context, userID, reviewID string) error
	// List returns all of a user's bookmarks, newest first.
	List(ctx context.Context, userID string) ([]*model.SavedReview, error)
	Count(ctx context.Context, userID string) (int, error)
}
