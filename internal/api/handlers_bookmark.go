package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codecraft-dev/codecraft-server/internal/api/respond"
	"github.com/codecraft-dev/codecraft-server/internal/api/validate"
	"github.com/codecraft-dev/codecraft-server/internal/auth"
	"github.com/codecraft-dev/codecraft-server/internal/services"
)

type BookmarkHandler struct {
	svc  *services.BookmarkService
	auth auth.Authorizer
}

func NewBookmarkHandler(svc *services.BookmarkService, a auth.Authorizer) *BookmarkHandler {
	return &BookmarkHandler{svc: svc, auth: a}
}

// AddBookmark handles POST /api/users/{identityId}/saved-reviews.
func (h *BookmarkHandler) AddBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizePathIdentity(w, r, h.auth)
	if !ok {
		return
	}

	var in struct {
		ReviewID string  `json:"reviewId"`
		Notes    *string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if err := validate.AddBookmark(in.ReviewID, in.Notes); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	sv, err := h.svc.AddBookmark(r.Context(), id.IdentityID, in.ReviewID, in.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, sv)
}

// RemoveBookmark handles DELETE /api/users/{identityId}/saved-reviews/{reviewId}.
func (h *BookmarkHandler) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizePathIdentity(w, r, h.auth)
	if !ok {
		return
	}
	reviewID := mux.Vars(r)["reviewId"]

	if err := h.svc.RemoveBookmark(r.Context(), id.IdentityID, reviewID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSavedReviews handles GET /api/users/{identityId}/saved-reviews.
func (h *BookmarkHandler) ListSavedReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := authorizePathIdentity(w, r, h.auth)
	if !ok {
		return
	}

	saved, err := h.svc.ListSavedReviews(r.Context(), id.IdentityID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"savedReviews": saved,
		"count":        len(saved),
	})
}
