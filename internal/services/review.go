package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/codecraft-dev/codecraft-server/internal/model"
	"github.com/codecraft-dev/codecraft-server/internal/store"
)

// ReviewService orchestrates review upserts, per-user queries and the
// dashboard statistics roll-up.
type ReviewService struct {
	store store.Store
}

func NewReviewService(s store.Store) *ReviewService { return &ReviewService{store: s} }

// UpsertReviewRequest carries the inputs of a review upsert.
type UpsertReviewRequest struct {
	IdentityID string
	RepoName   string
	RepoURL    string
	Payload    *model.ReviewPayload
}

// UpsertReview stores the analysis of a repository. A re-analysis of the
// same repository replaces the existing review's URL and payload and
// refreshes its timestamp; the stored review keeps its identity.
func (s *ReviewService) UpsertReview(ctx context.Context, req UpsertReviewRequest) (*model.Review, error) {
	if req.IdentityID == "" {
		return nil, fmt.Errorf("%w: identityId is required", model.ErrValidation)
	}
	if req.RepoName == "" {
		return nil, fmt.Errorf("%w: repoName is required", model.ErrValidation)
	}
	if req.Payload == nil {
		return nil, fmt.Errorf("%w: payload is required", model.ErrValidation)
	}

	u, err := resolveUser(ctx, s.store, req.IdentityID)
	if err != nil {
		return nil, err
	}

	r, err := s.store.Reviews().Upsert(ctx, &model.Review{
		UserID:   u.UserID,
		RepoName: req.RepoName,
		RepoURL:  req.RepoURL,
		Payload:  *req.Payload,
	})
	if err != nil {
		return nil, persistFail(err)
	}
	return r, nil
}

// ListUserReviews returns all of a user's reviews, newest first. An
// unknown identity yields an empty list, not an error, so the caller can
// render an empty dashboard uniformly.
func (s *ReviewService) ListUserReviews(ctx context.Context, identityID string) ([]*model.Review, error) {
	if identityID == "" {
		return nil, fmt.Errorf("%w: identityId is required", model.ErrValidation)
	}
	u, err := resolveUser(ctx, s.store, identityID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return []*model.Review{}, nil
		}
		return nil, err
	}
	reviews, err := s.store.Reviews().List(ctx, u.UserID)
	if err != nil {
		return nil, persistFail(err)
	}
	if reviews == nil {
		reviews = []*model.Review{}
	}
	return reviews, nil
}

// GetReview fetches a single review, enforcing that the caller owns it,
// and attaches the caller's bookmark state.
func (s *ReviewService) GetReview(ctx context.Context, identityID, reviewID string) (*model.ReviewDetail, error) {
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

	r, err := s.store.Reviews().GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, persistFail(err)
	}
	if r.UserID != u.UserID {
		return nil, model.ErrAccessDenied
	}

	detail := &model.ReviewDetail{Review: *r}
	saved, err := s.store.SavedReviews().Get(ctx, u.UserID, r.ReviewID)
	switch {
	case err == nil:
		detail.IsSaved = true
		detail.SavedNotes = saved.Notes
	case errors.Is(err, model.ErrNotFound):
		// not bookmarked
	default:
		return nil, persistFail(err)
	}
	return detail, nil
}

// GetReviewStats aggregates a user's reviews into dashboard statistics.
// An unknown identity yields zeroed statistics, not an error.
func (s *ReviewService) GetReviewStats(ctx context.Context, identityID string) (*model.ReviewStats, error) {
	if identityID == "" {
		return nil, fmt.Errorf("%w: identityId is required", model.ErrValidation)
	}

	stats := &model.ReviewStats{RecentActivity: []model.RecentActivity{}}

	u, err := resolveUser(ctx, s.store, identityID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return stats, nil
		}
		return nil, err
	}

	reviews, err := s.store.Reviews().List(ctx, u.UserID)
	if err != nil {
		return nil, persistFail(err)
	}

	var qualitySum, qualityCount int
	for _, r := range reviews {
		sum := r.Payload.Summary
		stats.TotalReviews++
		stats.TotalIssuesFound += sum.TotalIssues
		stats.CriticalIssues += sum.CriticalIssues
		stats.MajorIssues += sum.MajorIssues
		stats.MinorIssues += sum.MinorIssues
		if sum.CodeQuality != nil {
			qualitySum += *sum.CodeQuality
			qualityCount++
		}
	}
	if qualityCount > 0 {
		stats.AvgCodeQuality = int(math.Round(float64(qualitySum) / float64(qualityCount)))
	}

	count, err := s.store.SavedReviews().Count(ctx, u.UserID)
	if err != nil {
		return nil, persistFail(err)
	}
	stats.SavedReviews = count

	// Ties on identical timestamps keep the order produced by the store.
	recent := append([]*model.Review(nil), reviews...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreationTime.After(recent[j].CreationTime)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for _, r := range recent {
		stats.RecentActivity = append(stats.RecentActivity, model.RecentActivity{
			ReviewID:     r.ReviewID,
			RepoName:     r.RepoName,
			IssuesFound:  r.Payload.Summary.TotalIssues,
			CreationTime: r.CreationTime,
		})
	}
	return stats, nil
}
