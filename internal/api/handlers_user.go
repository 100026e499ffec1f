package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/codecraft-dev/codecraft-server/internal/api/respond"
	"github.com/codecraft-dev/codecraft-server/internal/api/validate"
	"github.com/codecraft-dev/codecraft-server/internal/auth"
	"github.com/codecraft-dev/codecraft-server/internal/services"
)

type UserHandler struct {
	svc  *services.UserService
	auth auth.Authorizer
}

func NewUserHandler(svc *services.UserService, a auth.Authorizer) *UserHandler {
	return &UserHandler{svc: svc, auth: a}
}

// UpsertUser handles POST /api/users. The identity comes from the bearer
// token; the optional body can override the asserted email.
func (h *UserHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	id, ok := authorize(w, r, h.auth)
	if !ok {
		return
	}

	email := id.Email
	var in struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && err != io.EOF {
		respond.WriteBadRequest(w, "invalid json")
		return
	}
	if in.Email != "" {
		email = in.Email
	}

	if err := validate.UpsertUser(id.IdentityID, email); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	u, err := h.svc.UpsertUser(r.Context(), id.IdentityID, email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, u)
}
