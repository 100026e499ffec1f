package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codecraft-dev/codecraft-server/internal/api/respond"
	"github.com/codecraft-dev/codecraft-server/internal/api/validate"
	"github.com/codecraft-dev/codecraft-server/internal/auth"
	"github.com/codecraft-dev/codecraft-server/internal/model"
	"github.com/codecraft-dev/codecraft-server/internal/services"
)

type ReviewHandler struct {
	svc  *services.ReviewService
	auth auth.Authorizer
}

func NewReviewHandler(svc *services.ReviewService, a auth.Authorizer) *ReviewHandler {
	return &ReviewHandler{svc: svc, auth: a}
}

// UpsertReview handles POST /api/users/{identityId}/reviews.
func (h *ReviewHandler) UpsertReview(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizePathIdentity(w, r, h.auth)
	if !ok {
		return
	}

	var in struct {
		RepoName string               `json:"repoName"`
		RepoURL  string               `json:"repoUrl"`
		Payload  *model.ReviewPayload `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.UpsertReview(in.RepoName, in.RepoURL, in.Payload); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.UpsertReview(r.Context(), services.UpsertReviewRequest{
		IdentityID: id.IdentityID,
		RepoName:   in.RepoName,
		RepoURL:    in.RepoURL,
		Payload:    in.Payload,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListUserReviews handles GET /api/users/{identityId}/reviews.
func (h *ReviewHandler) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizePathIdentity(w, r, h.auth)
	if !ok {
		return
	}

	reviews, err := h.svc.ListUserReviews(r.Context(), id.IdentityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// GetReview handles GET /api/users/{identityId}/reviews/{reviewId}.
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizePathIdentity(w, r, h.auth)
	if !ok {
		return
	}
	reviewID := mux.Vars(r)["reviewId"]

	detail, err := h.svc.GetReview(r.Context(), id.IdentityID, reviewID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, detail)
}

// GetReviewStats handles GET /api/users/{identityId}/stats.
func (h *ReviewHandler) GetReviewStats(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizePathIdentity(w, r, h.auth)
	if !ok {
		return
	}

	stats, err := h.svc.GetReviewStats(r.Context(), id.IdentityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}
