package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/codecraft-dev/codecraft-server/internal/model"
	"github.com/codecraft-dev/codecraft-server/internal/store"
)

// BookmarkService manages saved reviews. Notes are set at save time and
// never updated afterwards.
type BookmarkService struct {
	store store.Store
}

func NewBookmarkService(s store.Store) *BookmarkService { return &BookmarkService{store: s} }

// AddBookmark saves a review for the user. Saving the same review twice
// fails with model.ErrAlreadySaved.
func (s *BookmarkService) AddBookmark(ctx context.Context, identityID, reviewID string, notes *string) (*model.SavedReview, error) {
	if identityID == "" {
		return nil, fmt.Errorf("%w: identityId is required", model.ErrValidation)
	}
	if reviewID == "" {
		return nil, fmt.Errorf("%w: reviewId is required", model.ErrValidation)
	}

	u, err := resolveUser(ctx, s.store, identityID)
	if err != nil {
		return nil, err
	}

	_, err = s.store.SavedReviews().Get(ctx, u.UserID, reviewID)
	switch {
	case err == nil:
		return nil, model.ErrAlreadySaved
	case errors.Is(err, model.ErrNotFound):
		// free to save
	default:
		return nil, persistFail(err)
	}

	sv, err := s.store.SavedReviews().Create(ctx, &model.SavedReview{UserID: u.UserID, ReviewID: reviewID, Notes: notes})
	if err != nil {
		return nil, persistFail(err)
	}
	return sv, nil
}

// RemoveBookmark deletes the user's bookmark of a review.
func (s *BookmarkService) RemoveBookmark(ctx context.Context, identityID, reviewID string) error {
	if identityID == "" {
		return fmt.Errorf("%w: identityId is required", model.ErrValidation)
	}
	if reviewID == "" {
		return fmt.Errorf("%w: reviewId is required", model.ErrValidation)
	}

	u, err := resolveUser(ctx, s.store, identityID)
	if err != nil {
		return err
	}

	err = s.store.SavedReviews().Delete(ctx, u.UserID, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return persistFail(err)
	}
	return nil
}

// ListSavedReviews returns the user's bookmarks, newest first, each joined
// with its referenced review through one batch fetch. Bookmarks whose
// review no longer resolves are filtered out; no cascading delete exists
// for reviews, so dangling references are possible.
func (s *BookmarkService) ListSavedReviews(ctx context.Context, identityID string) ([]*model.SavedReviewWithReview, error) {
	if identityID == "" {
		return nil, fmt.Errorf("%w: identityId is required", model.ErrValidation)
	}

	u, err := resolveUser(ctx, s.store, identityID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return []*model.SavedReviewWithReview{}, nil
		}
		return nil, err
	}

	saved, err := s.store.SavedReviews().List(ctx, u.UserID)
	if err != nil {
		return nil, persistFail(err)
	}
	if len(saved) == 0 {
		return []*model.SavedReviewWithReview{}, nil
	}

	ids := make([]string, 0, len(saved))
	for _, sv := range saved {
		ids = append(ids, sv.ReviewID)
	}
	reviews, err := s.store.Reviews().GetByIDs(ctx, ids)
	if err != nil {
		return nil, persistFail(err)
	}
	byID := make(map[string]*model.Review, len(reviews))
	for _, r := range reviews {
		byID[r.ReviewID] = r
	}

	out := make([]*model.SavedReviewWithReview, 0, len(saved))
	for _, sv := range saved {
		r, ok := byID[sv.ReviewID]
		if !ok {
			continue
		}
		out = append(out, &model.SavedReviewWithReview{SavedReview: *sv, Review: r})
	}
	return out, nil
}
